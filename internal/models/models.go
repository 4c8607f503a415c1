package models

// Mocion is a parliamentary bill, keyed by its boletín number.
// Field names mirror the canonical column names produced by the
// normalize package.
type Mocion struct {
	NBoletin                 string  `json:"n_boletin"`
	NombreIniciativa         string  `json:"nombre_iniciativa"`
	FechaDeIngreso           *string `json:"fecha_de_ingreso"`
	EstadoDelProyectoDeLey   string  `json:"estado_del_proyecto_de_ley"`
	TipoDeProyecto           *string `json:"tipo_de_proyecto"`
	ComisionInicial          *string `json:"comision_inicial"`
	PublicadoEnDiarioOficial *string `json:"publicado_en_diario_oficial"`
	EtapaDelProyecto         *string `json:"etapa_del_proyecto"`
}

// Coautor links a deputy to a bill they co-signed. Several rows may
// exist per bill, one per signer.
type Coautor struct {
	NBoletin string `json:"n_boletin"`
	Diputado string `json:"diputado"`
}

// Diputado is the dimension table row for a deputy. A deputy appearing
// in coautores is not guaranteed to have a row here.
type Diputado struct {
	Diputado string  `json:"diputado"`
	Partido  *string `json:"partido"`
	Sexo     *string `json:"sexo"`
	Region   *string `json:"region"`
	Distrito *string `json:"distrito"`
}

// AnalisisIA holds the precomputed NLP annotations for one bill.
// TagsTemas keeps whatever encoding the store returned (JSON array
// string, decoded array, or comma-separated string); use
// legislative.ParseTags to read it.
type AnalisisIA struct {
	NBoletin         string   `json:"n_boletin"`
	ResumenEjecutivo *string  `json:"resumen_ejecutivo"`
	TipoIniciativa   *string  `json:"tipo_iniciativa"`
	SentimientoScore *float64 `json:"sentimiento_score"`
	TagsTemas        any      `json:"tags_temas"`
}

// MocionEnriquecida is a Mocion left-joined with its AnalisisIA row
// plus the derived year and legislative period.
type MocionEnriquecida struct {
	Mocion
	Anio             *int     `json:"anio,omitempty"`
	Periodo          string   `json:"periodo"`
	ResumenEjecutivo *string  `json:"resumen_ejecutivo"`
	TipoIniciativaIA *string  `json:"tipo_iniciativa_ia"`
	SentimientoScore *float64 `json:"sentimiento_score"`
	TagsTemas        any      `json:"tags_temas"`
}

// DashboardData holds the four normalized tables as fetched for one
// session load.
type DashboardData struct {
	Mociones   []Mocion     `json:"mociones"`
	Coautores  []Coautor    `json:"coautores"`
	Diputados  []Diputado   `json:"diputados"`
	AnalisisIA []AnalisisIA `json:"analisisIA"`
}

// ProcessedData is the derived dataset scoped to the target deputy.
type ProcessedData struct {
	// Mociones are the target's bills, enriched.
	Mociones []MocionEnriquecida `json:"mociones"`
	// BoletinIDs are the bill ids attributed to the target.
	BoletinIDs []string `json:"boletin_ids"`
	// FoundName is the name variant the target was resolved to.
	FoundName string `json:"found_name"`
	// TargetResolved is false when no known variant matched and the
	// default variant was used instead.
	TargetResolved bool `json:"target_resolved"`

	Total         int     `json:"total"`
	LeyesCount    int     `json:"leyes_count"`
	TasaExito     float64 `json:"tasa_exito"`
	PromedioAnual float64 `json:"promedio_anual"`
	TopAlly       string  `json:"top_ally"`
}
