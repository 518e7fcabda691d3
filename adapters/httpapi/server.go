// Package httpapi exposes the power engine over HTTP for simulation drivers
// and reporting clients.
package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"procova/app"
	"procova/domain/core"
	"procova/domain/design"
	"procova/domain/trial"
	"procova/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wires the estimation services to a chi router over one loaded
// historical dataset.
type Server struct {
	router  *chi.Mux
	frame   *trial.Frame
	dataset string
	power   *app.PowerService
	sweep   *app.SweepService
	runs    ports.RunRepository // nil disables persistence

	// fallback column names applied when a request leaves them blank
	defaultOutcome   string
	defaultTreatment string
}

// NewServer creates the API server. runs may be nil when no database is
// configured.
func NewServer(frame *trial.Frame, dataset string, power *app.PowerService, sweep *app.SweepService, runs ports.RunRepository) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		frame:   frame,
		dataset: dataset,
		power:   power,
		sweep:   sweep,
		runs:    runs,
	}
	s.defaultOutcome = "outcome"
	s.defaultTreatment = "treatment"
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Get("/health", s.handleHealth)
	s.router.Post("/api/power", s.handlePower)
	s.router.Post("/api/sweep", s.handleSweep)
	s.router.Get("/api/runs", s.handleRuns)
	return s
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

// SetColumnDefaults overrides the outcome and treatment column names used
// when a request leaves them blank.
func (s *Server) SetColumnDefaults(outcome, treatment string) {
	if outcome != "" {
		s.defaultOutcome = outcome
	}
	if treatment != "" {
		s.defaultTreatment = treatment
	}
}

func (s *Server) applyDefaults(body *powerRequest) {
	if body.Outcome == "" {
		body.Outcome = s.defaultOutcome
	}
	if body.Treatment == "" {
		body.Treatment = s.defaultTreatment
	}
}

type powerRequest struct {
	Outcome     string   `json:"outcome"`
	Treatment   string   `json:"treatment"`
	Covariates  []string `json:"covariates"`
	Interaction bool     `json:"interaction"`
	N           int      `json:"n"`
	Ratio       float64  `json:"r"`
	ATE         float64  `json:"ate"`
	Margin      float64  `json:"margin"`
	Alpha       float64  `json:"alpha"`
}

type sweepRequest struct {
	powerRequest
	SampleSizes []int `json:"sample_sizes"`
}

func (r powerRequest) toEstimation(frame *trial.Frame) app.EstimationRequest {
	return app.EstimationRequest{
		Frame:       frame,
		Outcome:     r.Outcome,
		Treatment:   r.Treatment,
		Covariates:  r.Covariates,
		Interaction: r.Interaction,
		Design: design.Parameters{
			N:      r.N,
			Ratio:  r.Ratio,
			ATE:    r.ATE,
			Margin: r.Margin,
			Alpha:  r.Alpha,
		},
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"dataset": s.dataset,
		"rows":    s.frame.NumRows(),
	})
}

func (s *Server) handlePower(w http.ResponseWriter, r *http.Request) {
	var body powerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	s.applyDefaults(&body)
	req := body.toEstimation(s.frame)
	result, err := s.power.Estimate(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.persist(r.Context(), req, result)
	writeJSON(w, http.StatusOK, map[string]any{"results": result})
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	var body sweepRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	s.applyDefaults(&body.powerRequest)
	points, err := s.sweep.Run(r.Context(), app.SweepRequest{
		Base:        body.toEstimation(s.frame),
		SampleSizes: body.SampleSizes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusNotFound, "run persistence is not configured")
		return
	}
	runs, err := s.runs.ListRecent(r.Context(), 50)
	if err != nil {
		log.Printf("[API] listing runs failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// persist stores the run when a repository is configured. Persistence
// failures are logged, never surfaced: the estimation already succeeded.
func (s *Server) persist(ctx context.Context, req app.EstimationRequest, result design.ResultVector) {
	if s.runs == nil {
		return
	}
	adjustment, err := design.NewAdjustment(req.Covariates, req.Interaction)
	if err != nil {
		return
	}
	run := design.NewRun(s.dataset, adjustment, req.Outcome, req.Covariates, req.Interaction, req.Design, result)
	if err := s.runs.Save(ctx, run); err != nil {
		log.Printf("[API] saving run %s failed: %v", run.ID, err)
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case core.IsPreconditionError(err), core.IsAdjustmentSpecError(err), core.IsDataShapeError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case core.IsSingularCovarianceError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("[API] estimation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "estimation failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] encoding response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
