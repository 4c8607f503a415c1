package models

import (
	"time"

	"legisboard/internal/legislative"
)

// StatusResponse is returned by /api/status.
type StatusResponse struct {
	Loaded   bool       `json:"loaded"`
	Loading  bool       `json:"loading"`
	Error    string     `json:"error,omitempty"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
	Rows     RowCounts  `json:"rows"`
}

// RowCounts reports how many rows each table contributed to the
// current snapshot.
type RowCounts struct {
	Mociones   int `json:"mociones"`
	Coautores  int `json:"coautores"`
	Diputados  int `json:"diputados"`
	AnalisisIA int `json:"analisis_ia"`
}

// DataResponse is the full payload of /api/data: the normalized raw
// tables plus the processed dataset.
type DataResponse struct {
	Mociones   []Mocion      `json:"mociones"`
	Coautores  []Coautor     `json:"coautores"`
	Diputados  []Diputado    `json:"diputados"`
	AnalisisIA []AnalisisIA  `json:"analisisIA"`
	Processed  ProcessedData `json:"processed"`
}

// SummaryResponse is the KPI block of the landing view.
type SummaryResponse struct {
	Total          int       `json:"total"`
	LeyesCount     int       `json:"leyes_count"`
	TasaExito      float64   `json:"tasa_exito"`
	PromedioAnual  float64   `json:"promedio_anual"`
	TopAlly        string    `json:"top_ally"`
	FoundName      string    `json:"found_name"`
	TargetResolved bool      `json:"target_resolved"`
	LoadedAt       time.Time `json:"loaded_at"`
}

// Ally is one co-signing deputy with their normalized party.
type Ally struct {
	Diputado string `json:"diputado"`
	Partido  string `json:"partido"`
	Count    int    `json:"count"`
}

// PartyCount aggregates coauthorships by party, with the chart color.
type PartyCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// AlianzasResponse is returned by /api/alianzas.
type AlianzasResponse struct {
	PartyData []PartyCount `json:"party_data"`
	TopAllies []Ally       `json:"top_allies"`
}

// ComisionesResponse is returned by /api/comisiones. When a tema
// filter is given the detail fields cover only that theme.
type ComisionesResponse struct {
	Temas       []legislative.NameCount `json:"temas"`
	Tema        string                  `json:"tema,omitempty"`
	Total       int                     `json:"total"`
	LeyesCount  int                     `json:"leyes_count"`
	TopComision string                  `json:"top_comision"`
	Mociones    []MocionEnriquecida     `json:"mociones"`
}

// MocionConEtapa is an enriched bill annotated with its progress
// stage, as listed by the estado view.
type MocionConEtapa struct {
	MocionEnriquecida
	ProgressVal int    `json:"progress_val"`
	StageLabel  string `json:"stage_label"`
}

// EstadoResponse is returned by /api/estado.
type EstadoResponse struct {
	Stages   []legislative.NameCount `json:"stages"`
	AvgDays  *int                    `json:"avg_days"`
	Mociones []MocionConEtapa        `json:"mociones"`
}

// PeriodosResponse is returned by /api/periodos for one selected
// legislative period.
type PeriodosResponse struct {
	Periodos   []string                `json:"periodos"`
	Periodo    string                  `json:"periodo"`
	Total      int                     `json:"total"`
	LeyesCount int                     `json:"leyes_count"`
	TasaExito  float64                 `json:"tasa_exito"`
	Estados    []legislative.NameCount `json:"estados"`
	Temas      []legislative.NameCount `json:"temas"`
	Anios      []legislative.NameCount `json:"anios"`
	Mociones   []MocionEnriquecida     `json:"mociones"`
}

// LeyesResponse is returned by /api/leyes.
type LeyesResponse struct {
	Leyes       []MocionEnriquecida     `json:"leyes"`
	PorAnio     []legislative.NameCount `json:"por_anio"`
	PorComision []legislative.NameCount `json:"por_comision"`
	AvgDays     *int                    `json:"avg_days"`
}

// FeaturedMocion is one highlighted bill with everything the card
// view needs resolved server-side.
type FeaturedMocion struct {
	MocionEnriquecida
	ProgressVal int      `json:"progress_val"`
	StageLabel  string   `json:"stage_label"`
	Tema        string   `json:"tema"`
	Tags        []string `json:"tags"`
	IsLey       bool     `json:"is_ley"`
	Coautores   []Ally   `json:"coautores"`
}

// DestacadosResponse is returned by /api/destacados.
type DestacadosResponse struct {
	Featured    []FeaturedMocion `json:"featured"`
	LeyesCount  int              `json:"leyes_count"`
	AvgProgress float64          `json:"avg_progress"`
}
