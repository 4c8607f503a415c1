// Package legislative holds the classification rules of the dashboard:
// commission themes, stage-of-progress mapping, legislative periods,
// success detection and tag parsing. All functions are pure and total;
// unknown or missing input always maps to a defined fallback.
package legislative

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// TargetVariants are the known spellings of the target deputy's name
// across data-collection eras, in resolution priority order. The first
// entry doubles as the default when none is found in the data.
var TargetVariants = []string{
	"Jose Antonio Kast Rist",
	"José Antonio Kast Rist",
	"Kast Rist Jose Antonio",
}

// successPattern marks a bill as approved into law.
var successPattern = regexp.MustCompile(`(?i)ley|publicado|tramitación terminada`)

// IsSuccess reports whether a legal-status text means the bill became law.
func IsSuccess(estado string) bool {
	return successPattern.MatchString(estado)
}

// Tema is one of the twelve thematic categories a commission maps to.
// The values are user-facing and must not change.
type Tema string

const (
	TemaConstitucion     Tema = "Constitución y Justicia"
	TemaEconomia         Tema = "Economía y Hacienda"
	TemaSeguridad        Tema = "Seguridad y Defensa"
	TemaFamilia          Tema = "Familia y Social"
	TemaEducacion        Tema = "Educación y Cultura"
	TemaSalud            Tema = "Salud"
	TemaTrabajo          Tema = "Trabajo y Previsión"
	TemaMedioAmbiente    Tema = "Medio Ambiente y Recursos"
	TemaVivienda         Tema = "Vivienda e Infraestructura"
	TemaDDHH             Tema = "DD.HH. y Nacionalidad"
	TemaGobiernoInterior Tema = "Gobierno Interior"
	TemaOtras            Tema = "Otras"
)

// temaRule maps any-of keywords to a theme. Rules are checked in order
// and the first hit wins; the keyword sets overlap, so order is part of
// the business rule.
type temaRule struct {
	tema     Tema
	keywords []string
}

var temaRules = []temaRule{
	{TemaConstitucion, []string{"constituc", "legislaci", "justicia"}},
	{TemaEconomia, []string{"econom", "hacienda", "presupuesto"}},
	{TemaSeguridad, []string{"seguridad", "defensa", "inteligencia"}},
	{TemaFamilia, []string{"familia", "mujer", "adulto mayor", "desarrollo"}},
	{TemaEducacion, []string{"educaci", "cultura", "deportes"}},
	{TemaSalud, []string{"salud"}},
	{TemaTrabajo, []string{"trabajo", "previsión"}},
	{TemaMedioAmbiente, []string{"ambiente", "recursos", "pesca", "agricultura", "minería"}},
	{TemaVivienda, []string{"vivienda", "obras", "transporte", "telecomunicaciones"}},
	{TemaDDHH, []string{"derechos humanos", "nacionalidad"}},
	{TemaGobiernoInterior, []string{"gobierno", "interior", "regional"}},
}

// CategorizeCommission maps a commission name to its theme. Empty input
// and commissions matching no rule both land on TemaOtras.
func CategorizeCommission(comision string) Tema {
	if comision == "" {
		return TemaOtras
	}
	n := strings.ToLower(comision)
	for _, rule := range temaRules {
		for _, kw := range rule.keywords {
			if strings.Contains(n, kw) {
				return rule.tema
			}
		}
	}
	return TemaOtras
}

// Stage is the ordinal progress of a bill. 0 and 4 are terminal
// (archived/withdrawn vs. published as law), 1 through 3 are the
// constitutional readings.
type Stage int

const (
	StageArchivado Stage = 0
	StagePrimero   Stage = 1
	StageSegundo   Stage = 2
	StageTercero   Stage = 3
	StageLey       Stage = 4
)

// MapStageNumeric derives the progress stage from the stage and status
// texts. Status-based terminal checks take precedence over the reading
// texts; anything unmatched counts as first reading.
func MapStageNumeric(etapa, estado string) Stage {
	txt := strings.ToLower(etapa)
	est := strings.ToLower(estado)

	switch {
	case strings.Contains(est, "publicado"), strings.Contains(est, "ley"), strings.Contains(est, "tramitación terminada"):
		return StageLey
	case strings.Contains(est, "archivado"), strings.Contains(est, "retirado"):
		return StageArchivado
	case strings.Contains(txt, "tercer"), strings.Contains(txt, "mixta"), strings.Contains(txt, "veto"):
		return StageTercero
	case strings.Contains(txt, "segundo"), strings.Contains(txt, "revisora"):
		return StageSegundo
	}
	return StagePrimero
}

// Label returns the human-readable name of a stage.
func (s Stage) Label() string {
	switch s {
	case StageLey:
		return "Tramitación Terminada / Ley"
	case StageTercero:
		return "Tercer Trámite / Mixta"
	case StageSegundo:
		return "Segundo Trámite"
	case StagePrimero:
		return "Primer Trámite"
	case StageArchivado:
		return "Archivado / Retirado"
	}
	return "Desconocido"
}

// Periodos is the ordered list of legislative periods covered by the
// corpus.
var Periodos = []string{
	"2002 - 2006",
	"2006 - 2010",
	"2010 - 2014",
	"2014 - 2018",
}

// dateLayouts are tried in order when parsing date strings coming out
// of the raw tables.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"2006/01/02",
}

// ParseDate parses a raw date string. The second return value is false
// when the input is empty or matches no known layout.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// GetPeriod buckets a date into its legislative period. Chilean terms
// start in March, so January and February belong to the closing term.
func GetPeriod(dateStr string) string {
	t, ok := ParseDate(dateStr)
	if !ok {
		return "Desconocido"
	}
	year, month := t.Year(), int(t.Month())

	for _, start := range []int{2002, 2006, 2010, 2014, 2018} {
		if (year >= start && year < start+4) || (year == start+4 && month < 3) {
			return fmt.Sprintf("%d - %d", start, start+4)
		}
	}
	return "Otros"
}

// FormatDateHuman renders a raw date as DD/MM/YYYY for tables and the
// CSV export. Unparseable input renders as "N/A".
func FormatDateHuman(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return "N/A"
	}
	return t.Format("02/01/2006")
}

// ParseTags reads the tags_temas value, which the store returns in
// three encodings depending on the migration era: a JSON array string,
// an already-decoded array, or a comma-separated string. All three are
// equally valid; anything else yields an empty list.
func ParseTags(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		var arr []any
		if err := json.Unmarshal([]byte(t), &arr); err == nil {
			return ParseTags(arr)
		}
		parts := strings.Split(t, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

// NameCount is one row of a frequency table.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ValueCounts counts occurrences of each value and returns them sorted
// by count descending. Ties keep first-seen order, so callers can rely
// on deterministic output for equal counts.
func ValueCounts(values []string) []NameCount {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	out := make([]NameCount, 0, len(order))
	for _, name := range order {
		out = append(out, NameCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
