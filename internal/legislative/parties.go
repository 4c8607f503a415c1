package legislative

import "strings"

// partyMap resolves full party names to their standard abbreviation.
var partyMap = map[string]string{
	"Unión Demócrata Independiente":    "UDI",
	"Renovación Nacional":              "RN",
	"Democracia Cristiana":             "DC",
	"Partido Socialista":               "PS",
	"Partido Por la Democracia":        "PPD",
	"Partido Radical Social Demócrata": "PRSD",
	"Partido Comunista":                "PC",
	"Evolución Política":               "Evópoli",
	"Partido Republicano de Chile":     "Republicanos",
	"Independiente":                    "IND",
	"Independientes":                   "IND",
}

// NormalizeParty maps a party name to its abbreviation. Exact lookup
// first, then keyword fallbacks for names the dimension table spells
// differently. Parties outside the known set pass through trimmed, so
// nothing is ever dropped; empty input means the deputy has no party
// on record.
func NormalizeParty(name string) string {
	if name == "" {
		return "Sin Partido"
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "Sin Partido"
	}
	if abbr, ok := partyMap[trimmed]; ok {
		return abbr
	}

	upper := strings.ToUpper(trimmed)
	switch {
	case strings.Contains(upper, "UDI"):
		return "UDI"
	case strings.Contains(upper, "RENOVACION"), strings.Contains(upper, "RENOVACIÓN"), upper == "RN":
		return "RN"
	case strings.Contains(upper, "SOCIALISTA"), upper == "PS":
		return "PS"
	case strings.Contains(upper, "RADICAL"):
		return "PRSD"
	case strings.Contains(upper, "DEMOCRACIA") && strings.Contains(upper, "CRISTIANA"), upper == "DC":
		return "DC"
	case strings.Contains(upper, "COMUNISTA"), upper == "PC":
		return "PC"
	case strings.Contains(upper, "INDEPENDIENTE"):
		return "IND"
	case strings.Contains(upper, "REPUBLICANO"):
		return "Republicanos"
	}
	return trimmed
}

// partyColors is the chart palette, keyed by abbreviation.
var partyColors = map[string]string{
	"UDI":          "#1B3A8C",
	"RN":           "#2E86C1",
	"DC":           "#27AE60",
	"PS":           "#E74C3C",
	"PPD":          "#F39C12",
	"PRSD":         "#8E44AD",
	"PC":           "#C0392B",
	"Evópoli":      "#3498DB",
	"Republicanos": "#D35400",
	"IND":          "#95A5A6",
	"Sin Partido":  "#7F8C8D",
}

// PartyColor returns the palette color for a party, defaulting to grey
// for parties without an assigned color.
func PartyColor(party string) string {
	if c, ok := partyColors[party]; ok {
		return c
	}
	return "#95A5A6"
}
