package api

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"legisboard/internal/legislative"
	"legisboard/internal/models"
	"legisboard/internal/normalize"
	"legisboard/internal/process"
	"legisboard/internal/state"
	"legisboard/internal/store"
)

// featuredIDs are the boletines highlighted on the destacados view,
// picked editorially. Missing ones are backfilled by relevance.
var featuredIDs = []string{
	"3515-07",
	"3992-07",
	"4724-07",
	"4843-03",
	"3876-07",
}

// Fetcher is the slice of the datasource the handler needs.
type Fetcher interface {
	FetchAll(ctx context.Context) (store.RawTables, error)
}

type Handler struct {
	Fetcher   Fetcher
	Processor *process.Processor
	State     *state.Container
	Log       *zap.Logger
}

func NewHandler(fetcher Fetcher, proc *process.Processor, st *state.Container, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Fetcher:   fetcher,
		Processor: proc,
		State:     st,
		Log:       log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Get("/api/status", h.GetStatus)
	r.Post("/api/reload", h.Reload)

	r.Get("/api/data", h.GetData)
	r.Get("/api/summary", h.GetSummary)
	r.Get("/api/alianzas", h.GetAlianzas)
	r.Get("/api/comisiones", h.GetComisiones)
	r.Get("/api/estado", h.GetEstado)
	r.Get("/api/periodos", h.GetPeriodos)
	r.Get("/api/leyes", h.GetLeyes)
	r.Get("/api/destacados", h.GetDestacados)
	r.Get("/api/export/mociones.csv", h.ExportMocionesCSV)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// Load fetches the four tables, normalizes them and swaps a fresh
// snapshot into the state container. On failure the previous snapshot
// is dropped and the error is recorded; views then fail uniformly.
func (h *Handler) Load(ctx context.Context) error {
	start := time.Now()
	h.State.SetLoading()

	raw, err := h.Fetcher.FetchAll(ctx)
	if err != nil {
		h.State.SetError(err.Error())
		h.Log.Error("dataset load failed", zap.Error(err))
		return err
	}

	h.Log.Debug("raw tables fetched",
		zap.Int("mociones", len(raw.Mociones)),
		zap.Int("coautores", len(raw.Coautores)),
		zap.Int("diputados", len(raw.Diputados)),
		zap.Int("analisis_ia", len(raw.AnalisisIA)),
		zap.Strings("mociones_columns", columnsOf(raw.Mociones)),
		zap.Strings("analisis_columns", columnsOf(raw.AnalisisIA)))

	data := models.DashboardData{
		Mociones:   normalize.DecodeMociones(raw.Mociones),
		Coautores:  normalize.DecodeCoautores(raw.Coautores),
		Diputados:  normalize.DecodeDiputados(raw.Diputados),
		AnalisisIA: normalize.DecodeAnalisis(raw.AnalisisIA),
	}
	processed := h.Processor.Process(data)

	h.State.Replace(&state.Snapshot{
		Raw:       data,
		Processed: processed,
		LoadedAt:  time.Now(),
	})

	h.Log.Info("dataset loaded",
		zap.String("found_name", processed.FoundName),
		zap.Bool("target_resolved", processed.TargetResolved),
		zap.Int("target_mociones", processed.Total),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	loading, lastErr := h.State.Status()
	resp := models.StatusResponse{
		Loading: loading,
		Error:   lastErr,
	}
	if snap := h.State.Snapshot(); snap != nil {
		resp.Loaded = true
		t := snap.LoadedAt
		resp.LoadedAt = &t
		resp.Rows = models.RowCounts{
			Mociones:   len(snap.Raw.Mociones),
			Coautores:  len(snap.Raw.Coautores),
			Diputados:  len(snap.Raw.Diputados),
			AnalisisIA: len(snap.Raw.AnalisisIA),
		}
	}
	h.writeJSON(w, resp)
}

func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.Load(r.Context()); err != nil {
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	h.writeJSON(w, map[string]string{"status": "reloaded"})
}

func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w)
	if snap == nil {
		return
	}
	h.writeJSON(w, models.DataResponse{
		Mociones:   snap.Raw.Mociones,
		Coautores:  snap.Raw.Coautores,
		Diputados:  snap.Raw.Diputados,
		AnalisisIA: snap.Raw.AnalisisIA,
		Processed:  snap.Processed,
	})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w)
	if snap == nil {
		return
	}
	p := snap.Processed
	h.writeJSON(w, models.SummaryResponse{
		Total:          p.Total,
		LeyesCount:     p.LeyesCount,
		TasaExito:      p.TasaExito,
		PromedioAnual:  p.PromedioAnual,
		TopAlly:        p.TopAlly,
		FoundName:      p.FoundName,
		TargetResolved: p.TargetResolved,
		LoadedAt:       snap.LoadedAt,
	})
}

func (h *Handler) GetAlianzas(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w)
	if snap == nil {
		return
	}
	p := snap.Processed
	coauthors := process.CoauthorsForBoletines(snap.Raw.Coautores, p.BoletinIDs, p.FoundName)

	partyOf := deputyParties(snap.Raw.Diputados)

	counts := make(map[string]int)
	var order []string
	for _, c := range coauthors {
		if _, seen := counts[c.Diputado]; !seen {
			order = append(order, c.Diputado)
		}
		counts[c.Diputado]++
	}

	allies := make([]models.Ally, 0, len(order))
	for _, name := range order {
		allies = append(allies, models.Ally{
			Diputado: name,
			Partido:  legislative.NormalizeParty(partyOf[name]),
			Count:    counts[name],
		})
	}
	sort.SliceStable(allies, func(i, j int) bool { return allies[i].Count > allies[j].Count })

	partyTotals := make(map[string]int)
	var partyOrder []string
	for _, a := range allies {
		if _, seen := partyTotals[a.Partido]; !seen {
			partyOrder = append(partyOrder, a.Partido)
		}
		partyTotals[a.Partido] += a.Count
	}
	partyData := make([]models.PartyCount, 0, len(partyOrder))
	for _, name := range partyOrder {
		partyData = append(partyData, models.PartyCount{
			Name:  name,
			Count: partyTotals[name],
			Color: legislative.PartyColor(name),
		})
	}
	sort.SliceStable(partyData, func(i, j int) bool { return partyData[i].Count > partyData[j].Count })

	top := allies
	if len(top) > 20 {
		top = top[:20]
	}
	h.writeJSON(w, models.AlianzasResponse{PartyData: partyData, TopAllies: top})
}

func (h *Handler) GetComisiones(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w)
	if snap == nil {
		return
	}
	mociones := snap.Processed.Mociones

	temaNames := make([]string, 0, len(mociones))
	for _, m := range mociones {
		temaNames = append(temaNames, string(legislative.CategorizeCommission(deref(m.ComisionInicial))))
	}
	temas := legislative.ValueCounts(temaNames)

	tema := r.URL.Query().Get("tema")
	filtered := mociones
	if tema != "" {
		filtered = nil
		for _, m := range mociones {
			if string(legislative.CategorizeCommission(deref(m.ComisionInicial))) == tema {
				filtered = append(filtered, m)
			}
		}
	}

	leyes := 0
	comisiones := make([]string, 0, len(filtered))
	for _, m := range filtered {
		if legislative.IsSuccess(m.EstadoDelProyectoDeLey) {
			leyes++
		}
		if c := deref(m.ComisionInicial); c != "" {
			comisiones = append(comisiones, c)
		} else {
			comisiones = append(comisiones, "Desconocida")
		}
	}
	topComision := "N/A"
	if counts := legislative.ValueCounts(comisiones); len(counts) > 0 {
		topComision = counts[0].Name
	}

	h.writeJSON(w, models.ComisionesResponse{
		Temas:       temas,
		Tema:        tema,
		Total:       len(filtered),
		LeyesCount:  leyes,
		TopComision: topComision,
		Mociones:    sortedByFechaDesc(filtered),
	})
}

func (h *Handler) GetEstado(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w)
	if snap == nil {
		return
	}
	mociones := snap.Processed.Mociones

	withStage := make([]models.MocionConEtapa, 0, len(mociones))
	labels := make([]string, 0, len(mociones))
	for _, m := range mociones {
		stage := legislative.MapStageNumeric(deref(m.EtapaDelProyecto), m.EstadoDelProyectoDeLey)
		withStage = append(withStage, models.MocionConEtapa{
			MocionEnriquecida: m,
			ProgressVal:       int(stage),
			StageLabel:        stage.Label(),
		})
		labels = append(labels, stage.Label())
	}

	h.writeJSON(w, models.EstadoResponse{
		Stages:   legislative.ValueCounts(labels),
		AvgDays:  avgProcessingDays(mociones),
		Mociones: withStage,
	})
}

func (h *Handler) GetPeriodos(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w)
	if snap == nil {
		return
	}
	periodo := r.URL.Query().Get("periodo")
	if periodo == "" {
		periodo = legislative.Periodos[0]
	}

	var filtered []models.MocionEnriquecida
	for _, m := range snap.Processed.Mociones {
		if m.Periodo == periodo {
			filtered = append(filtered, m)
		}
	}

	leyes := 0
	var estados, temas, anios []string
	for _, m := range filtered {
		if legislative.IsSuccess(m.EstadoDelProyectoDeLey) {
			leyes++
		}
		if m.EstadoDelProyectoDeLey != "" {
			estados = append(estados, m.EstadoDelProyectoDeLey)
		}
		temas = append(temas, string(legislative.CategorizeCommission(deref(m.ComisionInicial))))
		if m.Anio != nil {
			anios = append(anios, strconv.Itoa(*m.Anio))
		}
	}
	tasa := 0.0
	if len(filtered) > 0 {
		tasa = float64(leyes) / float64(len(filtered)) * 100
	}

	h.writeJSON(w, models.PeriodosResponse{
		Periodos:   legislative.Periodos,
		Periodo:    periodo,
		Total:      len(filtered),
		LeyesCount: leyes,
		TasaExito:  tasa,
		Estados:    legislative.ValueCounts(estados),
		Temas:      legislative.ValueCounts(temas),
		Anios:      legislative.ValueCounts(anios),
		Mociones:   sortedByFechaDesc(filtered),
	})
}

func (h *Handler) GetLeyes(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w)
	if snap == nil {
		return
	}
	var leyes []models.MocionEnriquecida
	for _, m := range snap.Processed.Mociones {
		if legislative.IsSuccess(m.EstadoDelProyectoDeLey) {
			leyes = append(leyes, m)
		}
	}

	var anios, comisiones []string
	for _, m := range leyes {
		if m.Anio != nil {
			anios = append(anios, strconv.Itoa(*m.Anio))
		}
		if c := deref(m.ComisionInicial); c != "" {
			comisiones = append(comisiones, c)
		} else {
			comisiones = append(comisiones, "Desconocida")
		}
	}
	porComision := legislative.ValueCounts(comisiones)
	if len(porComision) > 10 {
		porComision = porComision[:10]
	}

	h.writeJSON(w, models.LeyesResponse{
		Leyes:       sortedByFechaDesc(leyes),
		PorAnio:     legislative.ValueCounts(anios),
		PorComision: porComision,
		AvgDays:     avgProcessingDays(leyes),
	})
}

func (h *Handler) GetDestacados(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w)
	if snap == nil {
		return
	}
	p := snap.Processed

	byID := make(map[string]models.MocionEnriquecida, len(p.Mociones))
	for _, m := range p.Mociones {
		byID[m.NBoletin] = m
	}

	var featured []models.MocionEnriquecida
	used := make(map[string]struct{})
	for _, id := range featuredIDs {
		if m, ok := byID[id]; ok {
			featured = append(featured, m)
			used[id] = struct{}{}
		}
	}
	// Backfill with the most relevant remaining bills: laws first,
	// then those with a summary, then the most recent.
	if len(featured) < len(featuredIDs) {
		var extras []models.MocionEnriquecida
		for _, m := range p.Mociones {
			if _, ok := used[m.NBoletin]; !ok {
				extras = append(extras, m)
			}
		}
		sort.SliceStable(extras, func(i, j int) bool {
			si, sj := relevanceScore(extras[i]), relevanceScore(extras[j])
			if si != sj {
				return si > sj
			}
			return deref(extras[i].FechaDeIngreso) > deref(extras[j].FechaDeIngreso)
		})
		need := len(featuredIDs) - len(featured)
		if need > len(extras) {
			need = len(extras)
		}
		featured = append(featured, extras[:need]...)
	}

	partyOf := deputyParties(snap.Raw.Diputados)

	leyes := 0
	progressSum := 0
	cards := make([]models.FeaturedMocion, 0, len(featured))
	for _, m := range featured {
		stage := legislative.MapStageNumeric(deref(m.EtapaDelProyecto), m.EstadoDelProyectoDeLey)
		isLey := legislative.IsSuccess(m.EstadoDelProyectoDeLey)
		if isLey {
			leyes++
		}
		progressSum += int(stage)

		var coautores []models.Ally
		for _, c := range process.CoauthorsForBoletines(snap.Raw.Coautores, []string{m.NBoletin}, p.FoundName) {
			coautores = append(coautores, models.Ally{
				Diputado: c.Diputado,
				Partido:  legislative.NormalizeParty(partyOf[c.Diputado]),
				Count:    1,
			})
		}

		cards = append(cards, models.FeaturedMocion{
			MocionEnriquecida: m,
			ProgressVal:       int(stage),
			StageLabel:        stage.Label(),
			Tema:              string(legislative.CategorizeCommission(deref(m.ComisionInicial))),
			Tags:              legislative.ParseTags(m.TagsTemas),
			IsLey:             isLey,
			Coautores:         coautores,
		})
	}

	avgProgress := 0.0
	if len(cards) > 0 {
		avgProgress = float64(progressSum) / float64(len(cards))
	}
	h.writeJSON(w, models.DestacadosResponse{
		Featured:    cards,
		LeyesCount:  leyes,
		AvgProgress: avgProgress,
	})
}

// ExportMocionesCSV streams the enriched dataset as a CSV download.
func (h *Handler) ExportMocionesCSV(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w)
	if snap == nil {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="mociones.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{
		"n_boletin", "nombre_iniciativa", "fecha_de_ingreso", "anio", "periodo",
		"estado", "etapa", "etapa_num", "comision_inicial", "tema", "tags",
	})
	for _, m := range snap.Processed.Mociones {
		stage := legislative.MapStageNumeric(deref(m.EtapaDelProyecto), m.EstadoDelProyectoDeLey)
		anio := ""
		if m.Anio != nil {
			anio = strconv.Itoa(*m.Anio)
		}
		cw.Write([]string{
			m.NBoletin,
			m.NombreIniciativa,
			legislative.FormatDateHuman(deref(m.FechaDeIngreso)),
			anio,
			m.Periodo,
			m.EstadoDelProyectoDeLey,
			deref(m.EtapaDelProyecto),
			strconv.Itoa(int(stage)),
			deref(m.ComisionInicial),
			string(legislative.CategorizeCommission(deref(m.ComisionInicial))),
			strings.Join(legislative.ParseTags(m.TagsTemas), ", "),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.Log.Error("csv export failed", zap.Error(err))
	}
}

// ============================================================================
// Helpers
// ============================================================================

// snapshot fetches the current dataset or answers 503 when none is
// available; callers bail out on nil.
func (h *Handler) snapshot(w http.ResponseWriter) *state.Snapshot {
	snap := h.State.Snapshot()
	if snap != nil {
		return snap
	}
	loading, lastErr := h.State.Status()
	msg := lastErr
	if msg == "" {
		if loading {
			msg = "carga de datos en curso"
		} else {
			msg = "datos no cargados"
		}
	}
	h.writeError(w, http.StatusServiceUnavailable, msg)
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Error("encoding response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// deputyParties indexes raw party affiliation by deputy name.
func deputyParties(diputados []models.Diputado) map[string]string {
	out := make(map[string]string, len(diputados))
	for _, d := range diputados {
		if d.Partido != nil {
			out[d.Diputado] = *d.Partido
		}
	}
	return out
}

// relevanceScore orders backfill candidates for the destacados view.
func relevanceScore(m models.MocionEnriquecida) int {
	score := 0
	if legislative.IsSuccess(m.EstadoDelProyectoDeLey) {
		score += 10
	}
	if m.ResumenEjecutivo != nil && *m.ResumenEjecutivo != "" {
		score += 5
	}
	return score
}

// sortedByFechaDesc returns a copy ordered newest first. Dates are ISO
// strings, so plain string comparison orders them; bills without a
// date sink to the end.
func sortedByFechaDesc(mociones []models.MocionEnriquecida) []models.MocionEnriquecida {
	out := make([]models.MocionEnriquecida, len(mociones))
	copy(out, mociones)
	sort.SliceStable(out, func(i, j int) bool {
		return deref(out[i].FechaDeIngreso) > deref(out[j].FechaDeIngreso)
	})
	return out
}

// avgProcessingDays averages ingreso-to-publicación over the bills
// carrying both dates; nil when none does.
func avgProcessingDays(mociones []models.MocionEnriquecida) *int {
	total, n := 0, 0
	for _, m := range mociones {
		if m.PublicadoEnDiarioOficial == nil || m.FechaDeIngreso == nil {
			continue
		}
		pub, okPub := legislative.ParseDate(*m.PublicadoEnDiarioOficial)
		ing, okIng := legislative.ParseDate(*m.FechaDeIngreso)
		if !okPub || !okIng {
			continue
		}
		total += int(math.Round(pub.Sub(ing).Hours() / 24))
		n++
	}
	if n == 0 {
		return nil
	}
	avg := int(math.Round(float64(total) / float64(n)))
	return &avg
}

func columnsOf(rows []map[string]any) []string {
	if len(rows) == 0 {
		return nil
	}
	cols := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
