// Package normalize reconciles the column-name drift between the four
// raw tables. The tables were collected over several scraping eras and
// the same column can show up under different names depending on which
// migration produced it; every raw row passes through Row before any
// other processing sees it.
package normalize

import (
	"strconv"
	"time"

	"legisboard/internal/models"
)

// aliasRule expands to one canonical column, taking the first accepted
// source column that is present and non-null. Order matters.
type aliasRule struct {
	canonical string
	sources   []string
}

var aliasRules = []aliasRule{
	{"n_boletin", []string{"num_boletin", "id_boletin", "n°_boletin", "n_boletin"}},
	{"partido", []string{"partido", "partido_politico"}},
	{"fecha_de_ingreso", []string{"fecha_de_ingreso", "fecha_ingreso"}},
	{"tipo_de_proyecto", []string{"tipo_de_proyecto", "tipo_iniciativa", "tipo_proyecto"}},
	{"etapa_del_proyecto", []string{"etapa_del_proyecto", "etapa"}},
	{"estado_del_proyecto_de_ley", []string{"estado_del_proyecto_de_ley", "estado_proyecto_ley"}},
	{"comision_inicial", []string{"comision_inicial", "comision"}},
}

// Row returns a copy of the raw row with canonical column names filled
// in from whichever alias is populated. Unknown columns pass through
// untouched; a row where no alias matches simply keeps the canonical
// column absent. Never fails.
func Row(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	for _, rule := range aliasRules {
		for _, src := range rule.sources {
			if v, ok := row[src]; ok && v != nil {
				out[rule.canonical] = v
				break
			}
		}
	}
	return out
}

// Rows normalizes every row of a table.
func Rows(rows []map[string]any) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		out[i] = Row(r)
	}
	return out
}

// DecodeMociones normalizes and decodes the mociones table.
func DecodeMociones(rows []map[string]any) []models.Mocion {
	out := make([]models.Mocion, 0, len(rows))
	for _, raw := range rows {
		r := Row(raw)
		out = append(out, models.Mocion{
			NBoletin:                 str(r, "n_boletin"),
			NombreIniciativa:         str(r, "nombre_iniciativa"),
			FechaDeIngreso:           strPtr(r, "fecha_de_ingreso"),
			EstadoDelProyectoDeLey:   str(r, "estado_del_proyecto_de_ley"),
			TipoDeProyecto:           strPtr(r, "tipo_de_proyecto"),
			ComisionInicial:          strPtr(r, "comision_inicial"),
			PublicadoEnDiarioOficial: strPtr(r, "publicado_en_diario_oficial"),
			EtapaDelProyecto:         strPtr(r, "etapa_del_proyecto"),
		})
	}
	return out
}

// DecodeCoautores normalizes and decodes the coautores table.
func DecodeCoautores(rows []map[string]any) []models.Coautor {
	out := make([]models.Coautor, 0, len(rows))
	for _, raw := range rows {
		r := Row(raw)
		out = append(out, models.Coautor{
			NBoletin: str(r, "n_boletin"),
			Diputado: str(r, "diputado"),
		})
	}
	return out
}

// DecodeDiputados normalizes and decodes the dim_diputados table.
func DecodeDiputados(rows []map[string]any) []models.Diputado {
	out := make([]models.Diputado, 0, len(rows))
	for _, raw := range rows {
		r := Row(raw)
		out = append(out, models.Diputado{
			Diputado: str(r, "diputado"),
			Partido:  strPtr(r, "partido"),
			Sexo:     strPtr(r, "sexo"),
			Region:   strPtr(r, "region"),
			Distrito: strPtr(r, "distrito"),
		})
	}
	return out
}

// DecodeAnalisis normalizes and decodes the analisis_ia table. The
// table's key column (id_boletin or num_boletin depending on the era)
// lands on n_boletin via the bill-id alias rule.
func DecodeAnalisis(rows []map[string]any) []models.AnalisisIA {
	out := make([]models.AnalisisIA, 0, len(rows))
	for _, raw := range rows {
		r := Row(raw)
		out = append(out, models.AnalisisIA{
			NBoletin:         str(r, "n_boletin"),
			ResumenEjecutivo: strPtr(r, "resumen_ejecutivo"),
			TipoIniciativa:   strPtr(r, "tipo_iniciativa"),
			SentimientoScore: floatPtr(r, "sentimiento_score"),
			TagsTemas:        r["tags_temas"],
		})
	}
	return out
}

// str coerces a scanned value to string. Postgres date columns come
// back as time.Time; everything else relevant is already a string by
// the time the store hands rows over.
func str(row map[string]any, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func strPtr(row map[string]any, key string) *string {
	v, ok := row[key]
	if !ok || v == nil {
		return nil
	}
	s := str(row, key)
	if s == "" {
		return nil
	}
	return &s
}

func floatPtr(row map[string]any, key string) *float64 {
	v, ok := row[key]
	if !ok || v == nil {
		return nil
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int64:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}
