package process

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legisboard/internal/legislative"
	"legisboard/internal/models"
)

const target = "Jose Antonio Kast Rist"

func strp(s string) *string { return &s }

func fixture() models.DashboardData {
	return models.DashboardData{
		Mociones: []models.Mocion{
			{
				NBoletin:               "100-07",
				NombreIniciativa:       "Proyecto publicado",
				FechaDeIngreso:         strp("2015-06-01"),
				EstadoDelProyectoDeLey: "Publicado en Diario Oficial",
				ComisionInicial:        strp("Comisión de Salud"),
			},
			{
				NBoletin:               "200-07",
				NombreIniciativa:       "Proyecto archivado",
				FechaDeIngreso:         strp("2016-04-10"),
				EstadoDelProyectoDeLey: "Archivado",
			},
			{
				NBoletin:               "900-07",
				NombreIniciativa:       "Proyecto ajeno",
				FechaDeIngreso:         strp("2015-01-01"),
				EstadoDelProyectoDeLey: "En tramitación",
			},
		},
		Coautores: []models.Coautor{
			{NBoletin: "100-07", Diputado: target},
			{NBoletin: "100-07", Diputado: "Aliada Frecuente"},
			{NBoletin: "100-07", Diputado: "Aliado Ocasional"},
			{NBoletin: "200-07", Diputado: target},
			{NBoletin: "200-07", Diputado: "Aliada Frecuente"},
			{NBoletin: "900-07", Diputado: "Otro Diputado"},
		},
		Diputados: []models.Diputado{
			{Diputado: "Aliada Frecuente", Partido: strp("Renovación Nacional")},
		},
		AnalisisIA: []models.AnalisisIA{
			{
				NBoletin:         "100-07",
				ResumenEjecutivo: strp("Resumen del proyecto"),
				TagsTemas:        `["salud"]`,
			},
		},
	}
}

func TestProcess(t *testing.T) {
	p := NewProcessor(nil)
	got := p.Process(fixture())

	t.Run("target resolution", func(t *testing.T) {
		assert.Equal(t, target, got.FoundName)
		assert.True(t, got.TargetResolved)
	})

	t.Run("bill set matches coauthorships", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"100-07", "200-07"}, got.BoletinIDs)
		idSet := make(map[string]struct{})
		for _, id := range got.BoletinIDs {
			idSet[id] = struct{}{}
		}
		for _, m := range got.Mociones {
			_, ok := idSet[m.NBoletin]
			assert.True(t, ok, "enriched bill %s outside the target's set", m.NBoletin)
		}
		require.Len(t, got.Mociones, 2)
	})

	t.Run("enrichment", func(t *testing.T) {
		m := got.Mociones[0]
		require.Equal(t, "100-07", m.NBoletin)
		require.NotNil(t, m.Anio)
		assert.Equal(t, 2015, *m.Anio)
		assert.Equal(t, "2014 - 2018", m.Periodo)
		require.NotNil(t, m.ResumenEjecutivo)
		assert.Equal(t, "Resumen del proyecto", *m.ResumenEjecutivo)
		assert.Equal(t, []string{"salud"}, legislative.ParseTags(m.TagsTemas))

		// No analysis row: fields stay null, the bill is kept.
		sin := got.Mociones[1]
		assert.Equal(t, "200-07", sin.NBoletin)
		assert.Nil(t, sin.ResumenEjecutivo)
		assert.Nil(t, sin.SentimientoScore)
	})

	t.Run("metrics", func(t *testing.T) {
		assert.Equal(t, 2, got.Total)
		assert.Equal(t, 1, got.LeyesCount)
		assert.InDelta(t, 50.0, got.TasaExito, 1e-9)
		// Two bills over two distinct years.
		assert.InDelta(t, 1.0, got.PromedioAnual, 1e-9)
		assert.Equal(t, "Aliada Frecuente", got.TopAlly)
	})
}

func TestProcessIdempotent(t *testing.T) {
	p := NewProcessor(nil)
	a := p.Process(fixture())
	b := p.Process(fixture())
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Process is not idempotent (-first +second):\n%s", diff)
	}
}

func TestProcessVariantResolution(t *testing.T) {
	data := fixture()
	for i := range data.Coautores {
		if data.Coautores[i].Diputado == target {
			data.Coautores[i].Diputado = "Kast Rist Jose Antonio"
		}
	}
	got := NewProcessor(nil).Process(data)
	assert.Equal(t, "Kast Rist Jose Antonio", got.FoundName)
	assert.True(t, got.TargetResolved)
	assert.Equal(t, 2, got.Total)
}

func TestProcessUnresolvedTarget(t *testing.T) {
	data := fixture()
	for i := range data.Coautores {
		data.Coautores[i].Diputado = "Nadie Conocido"
	}
	got := NewProcessor(nil).Process(data)

	assert.Equal(t, target, got.FoundName)
	assert.False(t, got.TargetResolved)
	assert.Equal(t, 0, got.Total)
	assert.Equal(t, 0.0, got.TasaExito)
	assert.Equal(t, 0.0, got.PromedioAnual)
	assert.Equal(t, "N/A", got.TopAlly)
}

func TestProcessEmptyInput(t *testing.T) {
	got := NewProcessor(nil).Process(models.DashboardData{})
	assert.Equal(t, 0, got.Total)
	assert.Equal(t, 0.0, got.TasaExito)
	assert.Equal(t, "N/A", got.TopAlly)
	assert.False(t, got.TargetResolved)
}

func TestProcessMissingDate(t *testing.T) {
	data := fixture()
	data.Mociones[0].FechaDeIngreso = nil
	got := NewProcessor(nil).Process(data)

	var m *models.MocionEnriquecida
	for i := range got.Mociones {
		if got.Mociones[i].NBoletin == "100-07" {
			m = &got.Mociones[i]
		}
	}
	require.NotNil(t, m)
	assert.Nil(t, m.Anio)
	assert.Equal(t, "Desconocido", m.Periodo)
}

func TestCoauthorsForBoletines(t *testing.T) {
	data := fixture()
	ids := []string{"100-07", "200-07"}
	got := CoauthorsForBoletines(data.Coautores, ids, target)

	require.Len(t, got, 3)
	for _, c := range got {
		assert.NotEqual(t, target, c.Diputado)
		assert.Contains(t, ids, c.NBoletin)
	}
}

func TestTopAllyTieBreak(t *testing.T) {
	data := models.DashboardData{
		Mociones: []models.Mocion{
			{NBoletin: "1-07", EstadoDelProyectoDeLey: "En tramitación"},
			{NBoletin: "2-07", EstadoDelProyectoDeLey: "En tramitación"},
		},
		Coautores: []models.Coautor{
			{NBoletin: "1-07", Diputado: target},
			{NBoletin: "1-07", Diputado: "Primera Vista"},
			{NBoletin: "1-07", Diputado: "Segunda Vista"},
			{NBoletin: "2-07", Diputado: target},
			{NBoletin: "2-07", Diputado: "Primera Vista"},
			{NBoletin: "2-07", Diputado: "Segunda Vista"},
		},
	}
	got := NewProcessor(nil).Process(data)
	// Equal counts: the first deputy encountered wins.
	assert.Equal(t, "Primera Vista", got.TopAlly)
}
