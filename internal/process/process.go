// Package process derives the dashboard dataset: it resolves the
// target deputy, filters the tables down to their bills, joins the AI
// analysis and computes the summary metrics. Everything here operates
// on already-normalized tables and never fails; data-quality gaps
// degrade to defaults.
package process

import (
	"math"

	"go.uber.org/zap"

	"legisboard/internal/legislative"
	"legisboard/internal/models"
)

type Processor struct {
	log *zap.Logger
}

func NewProcessor(log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{log: log}
}

// Process builds a fresh ProcessedData from one load of the four
// tables. The result is a new value every time; callers treat it as
// immutable for the rest of the session.
func (p *Processor) Process(data models.DashboardData) models.ProcessedData {
	foundName, resolved := resolveTarget(data.Coautores)
	if !resolved {
		// Best-effort fallback: the store may spell the name in a
		// variant we do not know, in which case zero bills get
		// attributed. Loud on purpose.
		p.log.Warn("target deputy not found in coautores, using default variant",
			zap.String("variant", foundName),
			zap.Int("distinct_deputies", countDistinctDeputies(data.Coautores)))
	}

	var boletinIDs []string
	boletinSet := make(map[string]struct{})
	for _, c := range data.Coautores {
		if c.Diputado == foundName {
			boletinIDs = append(boletinIDs, c.NBoletin)
			boletinSet[c.NBoletin] = struct{}{}
		}
	}

	// Left-join lookup; a later row for the same boletín wins.
	iaByBoletin := make(map[string]models.AnalisisIA, len(data.AnalisisIA))
	for _, ia := range data.AnalisisIA {
		if ia.NBoletin != "" {
			iaByBoletin[ia.NBoletin] = ia
		}
	}

	var enriched []models.MocionEnriquecida
	for _, m := range data.Mociones {
		if _, ok := boletinSet[m.NBoletin]; !ok {
			continue
		}
		e := models.MocionEnriquecida{Mocion: m}
		if m.FechaDeIngreso != nil {
			if t, ok := legislative.ParseDate(*m.FechaDeIngreso); ok {
				year := t.Year()
				e.Anio = &year
			}
			e.Periodo = legislative.GetPeriod(*m.FechaDeIngreso)
		} else {
			e.Periodo = "Desconocido"
		}
		if ia, ok := iaByBoletin[m.NBoletin]; ok {
			e.ResumenEjecutivo = ia.ResumenEjecutivo
			e.TipoIniciativaIA = ia.TipoIniciativa
			e.SentimientoScore = ia.SentimientoScore
			e.TagsTemas = ia.TagsTemas
		}
		enriched = append(enriched, e)
	}

	total := len(enriched)
	leyes := 0
	years := make(map[int]struct{})
	for _, e := range enriched {
		if legislative.IsSuccess(e.EstadoDelProyectoDeLey) {
			leyes++
		}
		if e.Anio != nil {
			years[*e.Anio] = struct{}{}
		}
	}

	tasa := 0.0
	if total > 0 {
		tasa = float64(leyes) / float64(total) * 100
	}
	promedio := 0.0
	if len(years) > 0 {
		promedio = math.Round(float64(total)/float64(len(years))*10) / 10
	}

	topAlly := "N/A"
	var allyNames []string
	for _, c := range data.Coautores {
		if _, ok := boletinSet[c.NBoletin]; ok && c.Diputado != foundName {
			allyNames = append(allyNames, c.Diputado)
		}
	}
	if counts := legislative.ValueCounts(allyNames); len(counts) > 0 {
		topAlly = counts[0].Name
	}

	return models.ProcessedData{
		Mociones:       enriched,
		BoletinIDs:     boletinIDs,
		FoundName:      foundName,
		TargetResolved: resolved,
		Total:          total,
		LeyesCount:     leyes,
		TasaExito:      tasa,
		PromedioAnual:  promedio,
		TopAlly:        topAlly,
	}
}

// resolveTarget picks the first known name variant that actually signs
// co-authorships. When none does, the default variant is returned with
// resolved == false.
func resolveTarget(coautores []models.Coautor) (string, bool) {
	present := make(map[string]struct{}, len(coautores))
	for _, c := range coautores {
		present[c.Diputado] = struct{}{}
	}
	for _, v := range legislative.TargetVariants {
		if _, ok := present[v]; ok {
			return v, true
		}
	}
	return legislative.TargetVariants[0], false
}

func countDistinctDeputies(coautores []models.Coautor) int {
	set := make(map[string]struct{}, len(coautores))
	for _, c := range coautores {
		set[c.Diputado] = struct{}{}
	}
	return len(set)
}

// CoauthorsForBoletines returns the co-authorship rows for the given
// bills, excluding the named deputy. Used by every view that lists who
// signed alongside the target.
func CoauthorsForBoletines(coautores []models.Coautor, boletinIDs []string, excluded string) []models.Coautor {
	idSet := make(map[string]struct{}, len(boletinIDs))
	for _, id := range boletinIDs {
		idSet[id] = struct{}{}
	}
	var out []models.Coautor
	for _, c := range coautores {
		if _, ok := idSet[c.NBoletin]; ok && c.Diputado != excluded {
			out = append(out, c)
		}
	}
	return out
}
