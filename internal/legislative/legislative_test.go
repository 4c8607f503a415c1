package legislative

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeCommission(t *testing.T) {
	t.Run("empty input falls back to Otras", func(t *testing.T) {
		assert.Equal(t, TemaOtras, CategorizeCommission(""))
	})

	t.Run("known commissions", func(t *testing.T) {
		cases := map[string]Tema{
			"Comisión de Constitución, Legislación y Justicia": TemaConstitucion,
			"Comisión de Hacienda":                             TemaEconomia,
			"Comisión de Seguridad Ciudadana":                  TemaSeguridad,
			"Comisión de Familia y Adulto Mayor":               TemaFamilia,
			"Comisión de Educación y Deportes":                 TemaEducacion,
			"Comisión de Salud":                                TemaSalud,
			"Comisión de Trabajo y Previsión Social":           TemaTrabajo,
			"Comisión de Medio Ambiente y Recursos Naturales":  TemaMedioAmbiente,
			"Comisión de Obras Públicas y Transportes":         TemaVivienda,
			"Comisión de Derechos Humanos y Nacionalidad":      TemaDDHH,
			"Comisión de Gobierno Interior":                    TemaGobiernoInterior,
			"Comisión Especial Sin Clasificar":                 TemaOtras,
		}
		for input, want := range cases {
			assert.Equal(t, want, CategorizeCommission(input), "input: %s", input)
		}
	})

	t.Run("rule order wins on overlapping keywords", func(t *testing.T) {
		// "justicia" fires before "regional" could.
		assert.Equal(t, TemaConstitucion, CategorizeCommission("Comisión Regional de Justicia"))
	})
}

func TestMapStageNumeric(t *testing.T) {
	t.Run("status overrides stage", func(t *testing.T) {
		assert.Equal(t, StageLey, MapStageNumeric("", "Publicado en Diario Oficial"))
		assert.Equal(t, StageLey, MapStageNumeric("Primer trámite constitucional", "Tramitación terminada: Ley"))
		assert.Equal(t, StageArchivado, MapStageNumeric("", "Archivado"))
		assert.Equal(t, StageArchivado, MapStageNumeric("Tercer trámite", "Retirado"))
	})

	t.Run("reading stages", func(t *testing.T) {
		assert.Equal(t, StageTercero, MapStageNumeric("Tercer trámite constitucional", "En tramitación"))
		assert.Equal(t, StageTercero, MapStageNumeric("Comisión Mixta", "En tramitación"))
		assert.Equal(t, StageSegundo, MapStageNumeric("Segundo trámite constitucional", "En tramitación"))
		assert.Equal(t, StageSegundo, MapStageNumeric("Cámara revisora", "En tramitación"))
	})

	t.Run("anything else is first reading", func(t *testing.T) {
		assert.Equal(t, StagePrimero, MapStageNumeric("", ""))
		assert.Equal(t, StagePrimero, MapStageNumeric("Primer trámite constitucional", "En tramitación"))
		assert.Equal(t, StagePrimero, MapStageNumeric("texto raro", "estado raro"))
	})
}

func TestStageLabel(t *testing.T) {
	want := map[Stage]string{
		StageArchivado: "Archivado / Retirado",
		StagePrimero:   "Primer Trámite",
		StageSegundo:   "Segundo Trámite",
		StageTercero:   "Tercer Trámite / Mixta",
		StageLey:       "Tramitación Terminada / Ley",
	}
	for stage, label := range want {
		assert.Equal(t, label, stage.Label())
	}
	assert.Equal(t, "Desconocido", Stage(7).Label())
	assert.Equal(t, "Desconocido", Stage(-1).Label())
}

func TestStageRoundTrip(t *testing.T) {
	// Every stage the mapper can produce has a real label.
	inputs := []struct{ etapa, estado string }{
		{"", "Archivado"},
		{"", ""},
		{"Segundo trámite", ""},
		{"Tercer trámite", ""},
		{"", "Publicado en Diario Oficial"},
	}
	for _, in := range inputs {
		label := MapStageNumeric(in.etapa, in.estado).Label()
		assert.NotEqual(t, "Desconocido", label)
	}
}

func TestGetPeriod(t *testing.T) {
	t.Run("march boundary", func(t *testing.T) {
		// Terms start in March; February still belongs to the
		// closing term.
		assert.Equal(t, "2006 - 2010", GetPeriod("2010-02-15"))
		assert.Equal(t, "2010 - 2014", GetPeriod("2010-03-15"))
	})

	t.Run("term buckets", func(t *testing.T) {
		assert.Equal(t, "2002 - 2006", GetPeriod("2003-06-01"))
		assert.Equal(t, "2014 - 2018", GetPeriod("2015-06-01"))
		assert.Equal(t, "2018 - 2022", GetPeriod("2021-12-31"))
	})

	t.Run("out of range and invalid", func(t *testing.T) {
		assert.Equal(t, "Otros", GetPeriod("2023-05-01"))
		assert.Equal(t, "Desconocido", GetPeriod(""))
		assert.Equal(t, "Desconocido", GetPeriod("no es fecha"))
	})
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess("Publicado en Diario Oficial"))
	assert.True(t, IsSuccess("Tramitación terminada: aprobado como LEY"))
	assert.False(t, IsSuccess("Archivado"))
	assert.False(t, IsSuccess(""))
}

func TestParseDate(t *testing.T) {
	for _, input := range []string{"2015-06-01", "2015-06-01T00:00:00Z", "2015-06-01 12:30:00", "01/06/2015"} {
		got, ok := ParseDate(input)
		assert.True(t, ok, "input: %s", input)
		assert.Equal(t, 2015, got.Year())
	}
	_, ok := ParseDate("junio de 2015")
	assert.False(t, ok)
}

func TestFormatDateHuman(t *testing.T) {
	assert.Equal(t, "01/06/2015", FormatDateHuman("2015-06-01"))
	assert.Equal(t, "N/A", FormatDateHuman(""))
	assert.Equal(t, "N/A", FormatDateHuman("???"))
}

func TestParseTags(t *testing.T) {
	t.Run("json array string", func(t *testing.T) {
		assert.Equal(t, []string{"familia", "infancia"}, ParseTags(`["familia","infancia"]`))
	})

	t.Run("decoded array", func(t *testing.T) {
		assert.Equal(t, []string{"salud", "pensiones"}, ParseTags([]any{"salud", "pensiones"}))
	})

	t.Run("comma separated", func(t *testing.T) {
		assert.Equal(t, []string{"seguridad", "fronteras"}, ParseTags("seguridad, fronteras"))
	})

	t.Run("nil and empty", func(t *testing.T) {
		assert.Empty(t, ParseTags(nil))
		assert.Empty(t, ParseTags(""))
	})

	t.Run("scalar json falls back to comma split", func(t *testing.T) {
		assert.Equal(t, []string{"42"}, ParseTags("42"))
	})
}

func TestValueCounts(t *testing.T) {
	got := ValueCounts([]string{"b", "a", "b", "c", "a", "b"})
	assert.Equal(t, []NameCount{{"b", 3}, {"a", 2}, {"c", 1}}, got)

	t.Run("ties keep first seen order", func(t *testing.T) {
		got := ValueCounts([]string{"x", "y", "y", "x"})
		assert.Equal(t, []NameCount{{"x", 2}, {"y", 2}}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ValueCounts(nil))
	})
}
