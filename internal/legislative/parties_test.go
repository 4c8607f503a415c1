package legislative

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeParty(t *testing.T) {
	t.Run("exact matches", func(t *testing.T) {
		assert.Equal(t, "UDI", NormalizeParty("Unión Demócrata Independiente"))
		assert.Equal(t, "RN", NormalizeParty("Renovación Nacional"))
		assert.Equal(t, "IND", NormalizeParty("Independientes"))
		assert.Equal(t, "Republicanos", NormalizeParty("Partido Republicano de Chile"))
	})

	t.Run("substring fallbacks", func(t *testing.T) {
		assert.Equal(t, "UDI", NormalizeParty("Partido UDI"))
		assert.Equal(t, "RN", NormalizeParty("RENOVACION NACIONAL"))
		assert.Equal(t, "PS", NormalizeParty("Part. Socialista de Chile"))
		assert.Equal(t, "PRSD", NormalizeParty("Partido Radical"))
		assert.Equal(t, "DC", NormalizeParty("democracia cristiana"))
		assert.Equal(t, "IND", NormalizeParty("independiente"))
	})

	t.Run("no party", func(t *testing.T) {
		assert.Equal(t, "Sin Partido", NormalizeParty(""))
		assert.Equal(t, "Sin Partido", NormalizeParty("   "))
	})

	t.Run("unknown parties pass through trimmed", func(t *testing.T) {
		assert.Equal(t, "Partido Liberal", NormalizeParty("Partido Liberal"))
		assert.Equal(t, "Partido Liberal", NormalizeParty("  Partido Liberal  "))
	})
}

func TestPartyColor(t *testing.T) {
	assert.Equal(t, "#1B3A8C", PartyColor("UDI"))
	assert.Equal(t, "#7F8C8D", PartyColor("Sin Partido"))
	// Unknown parties get the default grey.
	assert.Equal(t, "#95A5A6", PartyColor("Partido Liberal"))
}
