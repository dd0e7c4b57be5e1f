/*
handlers.go - HTTP API handlers for the bed allocation engine

PURPOSE:
  Exposes live hospitals, greedy bed suggestions and tree-search planning
  via REST API. Handles HTTP request/response, JSON serialization, and
  delegates to the hospital and agent packages.

ENDPOINTS:
  Hospitals:
    GET    /api/hospitals                    List loaded hospitals
    POST   /api/hospitals                    Create from layout or demo preset
    GET    /api/hospitals/{id}               Layout, occupants and score
    GET    /api/hospitals/{id}/render        Text tree (?level=1..4)

  Occupancy:
    POST   /api/hospitals/{id}/admit         Admit a patient into a bed
    POST   /api/hospitals/{id}/discharge     Discharge a patient by name
    GET    /api/hospitals/{id}/events        Admission/discharge history

  Planning:
    POST   /api/hospitals/{id}/suggestions   Greedy ranked beds for one patient
    POST   /api/hospitals/{id}/plan          Tree search over arrival batches

  Catalogue:
    GET    /api/restrictions                 Restriction kinds and scopes

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Snapshots/Events: persistence (sqlite in production, memory in tests)
  - Factory: layout and patient document conversion
  - hospitals: live in-memory models, one RWMutex each

CONCURRENCY:
  Writers (admit, discharge, applying a plan) hold the hospital's write
  lock. Suggestions and planning work on a clone taken under the read
  lock, so a long search never blocks admissions. Applying a plan
  re-checks every bed and patient name against the live hospital and
  fails with 409 if a bed was taken or a name admitted meanwhile.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Hospital, bed or patient not found
  - 409: Bed occupied, patient already admitted, hospital full
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/bed-engine/agent"
	"github.com/warp/bed-engine/factory"
	"github.com/warp/bed-engine/hospital"
	"github.com/warp/bed-engine/sampler"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Settings are the planner defaults applied when a request leaves them out.
type Settings struct {
	Iterations  int
	Discount    float64
	Parallelism int
	Suggestions int
	// Seed makes runs reproducible; 0 draws a fresh seed per handler.
	Seed uint64
}

// DefaultSettings mirrors the config package defaults.
func DefaultSettings() Settings {
	return Settings{Iterations: 100, Discount: 0.9, Parallelism: 1, Suggestions: 5}
}

type liveHospital struct {
	mu        sync.RWMutex
	h         *hospital.Hospital
	createdAt time.Time
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Snapshots hospital.SnapshotStore
	Events    hospital.EventLog
	Factory   *factory.HospitalFactory
	Logger    *zap.Logger
	Metrics   *Metrics
	Settings  Settings

	validate *validator.Validate
	seed     uint64
	runs     atomic.Uint64

	mu        sync.RWMutex
	hospitals map[string]*liveHospital
}

// NewHandler creates a handler persisting to the given stores. A nil
// logger is replaced by a no-op logger.
func NewHandler(snapshots hospital.SnapshotStore, events hospital.EventLog, logger *zap.Logger, settings Settings) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := settings.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Handler{
		Snapshots: snapshots,
		Events:    events,
		Factory:   factory.NewHospitalFactory(),
		Logger:    logger,
		Metrics:   NewMetrics(),
		Settings:  settings,
		validate:  validator.New(),
		seed:      seed,
		hospitals: make(map[string]*liveHospital),
	}
}

// LoadHospitals loads every stored snapshot into memory. Snapshots that
// no longer parse are logged and skipped.
func (h *Handler) LoadHospitals(ctx context.Context) error {
	snaps, err := h.Snapshots.ListSnapshots(ctx)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range snaps {
		hosp, err := h.Factory.ParseHospital(s.Layout)
		if err != nil {
			h.Logger.Warn("skipping unreadable snapshot", zap.String("hospital_id", s.ID), zap.Error(err))
			continue
		}
		h.hospitals[s.ID] = &liveHospital{h: hosp, createdAt: s.CreatedAt}
	}
	h.Metrics.hospitals.Set(float64(len(h.hospitals)))
	h.Logger.Info("hospitals loaded", zap.Int("count", len(h.hospitals)))
	return nil
}

// Register stores hosp under a new ID and returns it.
func (h *Handler) Register(ctx context.Context, hosp *hospital.Hospital) (string, error) {
	id := uuid.NewString()
	lh := &liveHospital{h: hosp, createdAt: time.Now().UTC()}
	if err := h.persist(ctx, id, lh); err != nil {
		return "", err
	}

	h.mu.Lock()
	h.hospitals[id] = lh
	h.Metrics.hospitals.Set(float64(len(h.hospitals)))
	h.mu.Unlock()
	return id, nil
}

func (h *Handler) lookup(id string) (*liveHospital, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	lh, ok := h.hospitals[id]
	return lh, ok
}

// persist saves the current layout of lh. Callers hold lh.mu.
func (h *Handler) persist(ctx context.Context, id string, lh *liveHospital) error {
	layout, err := h.Factory.Export(lh.h)
	if err != nil {
		return fmt.Errorf("export hospital: %w", err)
	}
	return h.Snapshots.SaveSnapshot(ctx, hospital.Snapshot{
		ID:        id,
		Name:      lh.h.Name,
		Layout:    layout,
		CreatedAt: lh.createdAt,
		UpdatedAt: time.Now().UTC(),
	})
}

func (h *Handler) newRand() *rand.Rand {
	return rand.New(rand.NewPCG(h.seed, h.runs.Add(1)))
}

// =============================================================================
// HOSPITAL HANDLERS
// =============================================================================

// ListHospitals returns a summary of every loaded hospital.
// GET /api/hospitals
func (h *Handler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	ids := make([]string, 0, len(h.hospitals))
	for id := range h.hospitals {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	dtos := make([]HospitalDTO, 0, len(ids))
	for _, id := range ids {
		lh, ok := h.lookup(id)
		if !ok {
			continue
		}
		lh.mu.RLock()
		dtos = append(dtos, h.toHospitalDTO(id, lh, false))
		lh.mu.RUnlock()
	}
	sort.Slice(dtos, func(i, j int) bool {
		if !dtos[i].CreatedAt.Equal(dtos[j].CreatedAt) {
			return dtos[i].CreatedAt.Before(dtos[j].CreatedAt)
		}
		return dtos[i].ID < dtos[j].ID
	})

	writeJSON(w, http.StatusOK, dtos)
}

// CreateHospital builds a hospital from a posted layout or the demo preset.
// POST /api/hospitals
func (h *Handler) CreateHospital(w http.ResponseWriter, r *http.Request) {
	var req CreateHospitalRequest
	if !h.decode(w, r, &req) {
		return
	}

	var (
		hosp *hospital.Hospital
		err  error
	)
	switch {
	case req.Demo:
		hosp, err = factory.DemoLayout()
	case req.Layout != nil:
		hosp, err = h.Factory.FromJSON(*req.Layout)
	default:
		writeError(w, http.StatusBadRequest, "Either layout or demo is required", nil)
		return
	}
	if err != nil {
		writeDomainError(w, "Invalid layout", err)
		return
	}
	if req.Name != "" {
		hosp.Name = req.Name
	}

	if req.Occupancy > 0 {
		rng := h.newRand()
		src, err := sampler.New(sampler.DefaultConfig(), rng)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create sampler", err)
			return
		}
		if err := agent.PopulateHospital(hosp, req.Occupancy, src, rng); err != nil {
			writeDomainError(w, "Failed to populate hospital", err)
			return
		}
	}

	id, err := h.Register(r.Context(), hosp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save hospital", err)
		return
	}
	h.Logger.Info("hospital created",
		zap.String("hospital_id", id),
		zap.String("name", hosp.Name),
		zap.Int("beds", hosp.NumBeds()),
		zap.Int("occupied", hosp.NumOccupied()))

	lh, _ := h.lookup(id)
	lh.mu.RLock()
	defer lh.mu.RUnlock()
	writeJSON(w, http.StatusCreated, h.toHospitalDTO(id, lh, true))
}

// GetHospital returns the layout, occupants and current score.
// GET /api/hospitals/{id}
func (h *Handler) GetHospital(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	lh, ok := h.lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Hospital not found", nil)
		return
	}

	lh.mu.RLock()
	defer lh.mu.RUnlock()
	writeJSON(w, http.StatusOK, h.toHospitalDTO(id, lh, true))
}

// RenderHospital returns the text tree of the hospital.
// GET /api/hospitals/{id}/render?level=4
func (h *Handler) RenderHospital(w http.ResponseWriter, r *http.Request) {
	lh, ok := h.lookup(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Hospital not found", nil)
		return
	}

	level := 4
	if s := r.URL.Query().Get("level"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 4 {
			writeError(w, http.StatusBadRequest, "level must be between 1 and 4", err)
			return
		}
		level = n
	}

	lh.mu.RLock()
	out := lh.h.RenderString(level)
	lh.mu.RUnlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

// =============================================================================
// OCCUPANCY HANDLERS
// =============================================================================

// Admit places a new patient into a named bed.
// POST /api/hospitals/{id}/admit
func (h *Handler) Admit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	lh, ok := h.lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Hospital not found", nil)
		return
	}

	var req AdmitRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.Factory.PatientFromJSON(req.Patient)
	if err != nil {
		writeDomainError(w, "Invalid patient", err)
		return
	}

	lh.mu.Lock()
	defer lh.mu.Unlock()

	if _, _, err := lh.h.FindPatientByName(p.Name); err == nil {
		writeError(w, http.StatusConflict, "A patient with this name is already admitted", nil)
		return
	}

	before := lh.h.Score()
	if err := lh.h.Admit(p, req.Bed); err != nil {
		writeDomainError(w, "Failed to admit patient", err)
		return
	}
	after := lh.h.Score()

	ev := hospital.Event{
		ID:         uuid.NewString(),
		HospitalID: id,
		Type:       hospital.EventAdmit,
		Patient:    p.Name,
		Bed:        req.Bed,
		ScoreDelta: after - before,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.commit(r.Context(), id, lh, ev); err != nil {
		_ = lh.h.Discharge(p)
		writeError(w, http.StatusInternalServerError, "Failed to record admission", err)
		return
	}
	h.Metrics.admissions.Inc()
	h.Logger.Info("patient admitted",
		zap.String("hospital_id", id),
		zap.String("patient", p.Name),
		zap.String("bed", req.Bed),
		zap.Float64("score_delta", ev.ScoreDelta))

	writeJSON(w, http.StatusCreated, OccupancyChangeDTO{
		EventID:    ev.ID,
		Patient:    p.Name,
		Bed:        req.Bed,
		ScoreDelta: roundPenalty(ev.ScoreDelta),
		Score:      roundPenalty(after),
	})
}

// Discharge frees the bed of the named patient.
// POST /api/hospitals/{id}/discharge
func (h *Handler) Discharge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	lh, ok := h.lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Hospital not found", nil)
		return
	}

	var req DischargeRequest
	if !h.decode(w, r, &req) {
		return
	}

	lh.mu.Lock()
	defer lh.mu.Unlock()

	p, bed, err := lh.h.FindPatientByName(req.Patient)
	if err != nil {
		writeDomainError(w, "Patient not found", err)
		return
	}
	bedName := bed.Name()

	before := lh.h.Score()
	if err := lh.h.Discharge(p); err != nil {
		writeDomainError(w, "Failed to discharge patient", err)
		return
	}
	after := lh.h.Score()

	ev := hospital.Event{
		ID:         uuid.NewString(),
		HospitalID: id,
		Type:       hospital.EventDischarge,
		Patient:    p.Name,
		Bed:        bedName,
		ScoreDelta: after - before,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.commit(r.Context(), id, lh, ev); err != nil {
		_ = lh.h.Admit(p, bedName)
		writeError(w, http.StatusInternalServerError, "Failed to record discharge", err)
		return
	}
	h.Metrics.discharges.Inc()
	h.Logger.Info("patient discharged",
		zap.String("hospital_id", id),
		zap.String("patient", p.Name),
		zap.String("bed", bedName))

	writeJSON(w, http.StatusOK, OccupancyChangeDTO{
		EventID:    ev.ID,
		Patient:    p.Name,
		Bed:        bedName,
		ScoreDelta: roundPenalty(ev.ScoreDelta),
		Score:      roundPenalty(after),
	})
}

// commit records events and saves the snapshot. Callers hold lh.mu.
func (h *Handler) commit(ctx context.Context, id string, lh *liveHospital, events ...hospital.Event) error {
	if err := h.Events.AppendBatch(ctx, events); err != nil {
		return fmt.Errorf("append events: %w", err)
	}
	if err := h.persist(ctx, id, lh); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// GetEvents returns the event history of a hospital.
// GET /api/hospitals/{id}/events?type=admit&limit=50
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.lookup(id); !ok {
		writeError(w, http.StatusNotFound, "Hospital not found", nil)
		return
	}

	filter := hospital.EventFilter{HospitalID: id}
	for _, t := range r.URL.Query()["type"] {
		filter.Types = append(filter.Types, hospital.EventType(t))
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer", err)
			return
		}
		filter.Limit = n
	}

	events, err := h.Events.Query(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to query events", err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTOs(events))
}

// =============================================================================
// PLANNING HANDLERS
// =============================================================================

// Suggestions ranks the best beds for one patient.
// POST /api/hospitals/{id}/suggestions
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	lh, ok := h.lookup(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Hospital not found", nil)
		return
	}

	var req SuggestionsRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.Factory.PatientFromJSON(req.Patient)
	if err != nil {
		writeDomainError(w, "Invalid patient", err)
		return
	}
	limit := req.Limit
	if limit == 0 {
		limit = h.Settings.Suggestions
	}

	lh.mu.RLock()
	work := lh.h.Clone()
	lh.mu.RUnlock()

	suggestions, err := agent.GreedySuggestions(work, p, limit)
	if err != nil {
		writeDomainError(w, "Failed to compute suggestions", err)
		return
	}
	h.Metrics.suggestions.Inc()

	writeJSON(w, http.StatusOK, toSuggestionDTOs(work, suggestions))
}

// Plan runs the tree search over the posted arrival batches and optionally
// applies the best root action to the live hospital.
// POST /api/hospitals/{id}/plan
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	lh, ok := h.lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Hospital not found", nil)
		return
	}

	var req PlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	arrivals := make([][]*hospital.Patient, 0, len(req.Arrivals)+len(req.Forecast))
	for _, batch := range req.Arrivals {
		ps := make([]*hospital.Patient, 0, len(batch))
		for _, pj := range batch {
			p, err := h.Factory.PatientFromJSON(pj)
			if err != nil {
				writeDomainError(w, "Invalid patient", err)
				return
			}
			ps = append(ps, p)
		}
		arrivals = append(arrivals, ps)
	}

	rng := h.newRand()
	if len(req.Forecast) > 0 {
		src, err := sampler.New(sampler.DefaultConfig(), rng)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create sampler", err)
			return
		}
		forecast, err := src.Arrivals(req.StartHour+len(req.Arrivals), req.Forecast)
		if err != nil {
			writeDomainError(w, "Invalid forecast", err)
			return
		}
		arrivals = append(arrivals, forecast...)
	}

	iterations := req.Iterations
	if iterations == 0 {
		iterations = h.Settings.Iterations
	}
	discount := h.Settings.Discount
	if req.Discount != nil {
		discount = *req.Discount
	}

	lh.mu.RLock()
	snapshot := lh.h.Clone()
	lh.mu.RUnlock()

	search := snapshot
	if req.Normalise {
		search = snapshot.Clone()
		agent.NormalisePenalties(search)
	}

	runID := uuid.NewString()
	log := h.Logger.With(zap.String("hospital_id", id), zap.String("run_id", runID))

	start := time.Now()
	root, err := agent.RunMCTS(r.Context(), search, arrivals, discount, iterations,
		agent.WithRand(rng),
		agent.WithParallelism(h.Settings.Parallelism),
		agent.WithLogger(log))
	elapsed := time.Since(start)
	h.Metrics.planDuration.Observe(elapsed.Seconds())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusServiceUnavailable, "Planning was cancelled", err)
			return
		}
		writeDomainError(w, "Planning failed", err)
		return
	}

	results, err := agent.ConstructOutput(snapshot, root)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to rank actions", err)
		return
	}

	resp := PlanResponse{
		RunID:      runID,
		Results:    toPlanResultDTOs(results),
		Iterations: iterations,
		Horizon:    len(arrivals),
		DurationMS: elapsed.Milliseconds(),
	}

	if req.Apply && len(results) > 0 {
		if !h.applyPlan(r.Context(), w, id, lh, results) {
			return
		}
		resp.Applied = true
	}
	h.Metrics.planRuns.WithLabelValues(strconv.FormatBool(resp.Applied)).Inc()
	log.Info("plan computed",
		zap.Int("iterations", iterations),
		zap.Int("horizon", len(arrivals)),
		zap.Int("actions", len(results)),
		zap.Bool("applied", resp.Applied),
		zap.Duration("elapsed", elapsed))

	writeJSON(w, http.StatusOK, resp)
}

// applyPlan admits the best action into the live hospital and records one
// admit event per assignment plus a plan_applied summary. It writes the
// error response itself and reports whether the caller should continue.
func (h *Handler) applyPlan(ctx context.Context, w http.ResponseWriter, id string, lh *liveHospital, results []agent.Result) bool {
	lh.mu.Lock()
	defer lh.mu.Unlock()

	if len(results) > 0 {
		seen := make(map[string]struct{}, len(results[0].Action))
		for _, as := range results[0].Action {
			name := as.Patient.Name
			_, dup := seen[name]
			if _, _, err := lh.h.FindPatientByName(name); err == nil || dup {
				writeError(w, http.StatusConflict, "A patient with this name is already admitted",
					fmt.Errorf("%w: %s", hospital.ErrPatientAdmitted, name))
				return false
			}
			seen[name] = struct{}{}
		}
	}

	before := lh.h.Score()
	if err := agent.AssignBestAction(lh.h, results); err != nil {
		writeDomainError(w, "Failed to apply plan", err)
		return false
	}
	after := lh.h.Score()

	now := time.Now().UTC()
	action := results[0].Action
	events := make([]hospital.Event, 0, len(action)+1)
	for _, as := range action {
		events = append(events, hospital.Event{
			ID:         uuid.NewString(),
			HospitalID: id,
			Type:       hospital.EventAdmit,
			Patient:    as.Patient.Name,
			Bed:        as.Bed,
			CreatedAt:  now,
		})
	}
	events = append(events, hospital.Event{
		ID:         uuid.NewString(),
		HospitalID: id,
		Type:       hospital.EventPlanApplied,
		ScoreDelta: after - before,
		CreatedAt:  now,
	})

	if err := h.commit(ctx, id, lh, events...); err != nil {
		for _, as := range action {
			_ = lh.h.Discharge(as.Patient)
		}
		writeError(w, http.StatusInternalServerError, "Failed to record plan", err)
		return false
	}
	h.Metrics.admissions.Add(float64(len(action)))
	return true
}

// =============================================================================
// CATALOGUE
// =============================================================================

// ListRestrictions returns every restriction kind with its scope.
// GET /api/restrictions
func (h *Handler) ListRestrictions(w http.ResponseWriter, r *http.Request) {
	kinds := hospital.RestrictionKinds()
	dtos := make([]RestrictionKindDTO, len(kinds))
	for i, k := range kinds {
		dtos[i] = RestrictionKindDTO{Name: k.String(), Scope: k.Scope().String()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) toHospitalDTO(id string, lh *liveHospital, withLayout bool) HospitalDTO {
	ev := lh.h.EvalRestrictions()
	dto := HospitalDTO{
		ID:                   id,
		Name:                 lh.h.Name,
		Beds:                 lh.h.NumBeds(),
		Occupied:             lh.h.NumOccupied(),
		Score:                roundPenalty(ev.Score),
		ViolatedRestrictions: ev.Names,
		CreatedAt:            lh.createdAt,
	}
	if dto.ViolatedRestrictions == nil {
		dto.ViolatedRestrictions = []string{}
	}
	if withLayout {
		layout := h.Factory.ToJSON(lh.h)
		dto.Layout = &layout
	}
	return dto
}

// decode parses and validates a JSON body, writing a 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps hospital and agent errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	code := ""
	switch {
	case hospital.IsNotFound(err):
		status, code = http.StatusNotFound, "not_found"
	case hospital.IsConflict(err):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, agent.ErrNoEmptyBeds):
		status, code = http.StatusConflict, "no_empty_beds"
	case hospital.IsClientError(err), errors.Is(err, agent.ErrInvalidOccupancy):
		status, code = http.StatusBadRequest, "invalid_value"
	}
	resp := ErrorResponse{Error: message, Code: code, Details: err.Error()}
	writeJSON(w, status, resp)
}
