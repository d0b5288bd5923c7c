package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/colorsort"
	"github.com/aretw0/colorsort/internal/logging"
	"github.com/aretw0/colorsort/pkg/domain"
	"github.com/aretw0/colorsort/pkg/ports"
)

// Server exposes a simulator over HTTP.
type Server struct {
	Sim     ports.Simulator
	Streams *StreamManager
	Metrics http.Handler
	Logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithStreams attaches the stream manager fed by the simulator hooks.
// Without it /events only sends the initial snapshot.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetrics mounts a metrics handler under /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// ResetRequest is the optional body of POST /reset.
type ResetRequest struct {
	Processes map[string][]string `json:"processes"`
}

// PotentialResponse is the body of GET /potential.
type PotentialResponse struct {
	Potential int `json:"potential"`
}

// NewHandler creates a new HTTP handler for the simulator.
func NewHandler(sim ports.Simulator, opts ...Option) http.Handler {
	server := &Server{
		Sim:    sim,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.Streams == nil {
		server.Streams = NewStreamManager()
	}

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/state", server.GetState)
	r.Get("/history", server.GetHistory)
	r.Get("/potential", server.GetPotential)
	r.Post("/start", server.Start)
	r.Post("/reset", server.Reset)
	r.Get("/events", server.SubscribeEvents)
	if server.Metrics != nil {
		r.Handle("/metrics", server.Metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetState handles the GET /state request.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Sim.State())
}

// GetHistory handles the GET /history request.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.Sim.History(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("History error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("History failed", "error", err)
		return
	}
	if history == nil {
		history = []domain.SystemState{}
	}
	s.writeJSON(w, http.StatusOK, history)
}

// GetPotential handles the GET /potential request.
func (s *Server) GetPotential(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, PotentialResponse{Potential: s.Sim.Potential()})
}

// Start handles the POST /start request.
// With ?wait=true the run completes before the final state is returned.
// Otherwise the run continues in the background and 202 is returned.
func (s *Server) Start(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("wait") == "true" {
		if err := s.Sim.Start(r.Context()); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, s.Sim.State())
		return
	}

	if s.Sim.State().Status == domain.StatusRunning {
		s.writeError(w, domain.ErrAlreadyRunning)
		return
	}
	ctx := context.WithoutCancel(r.Context())
	go func() {
		if err := s.Sim.Start(ctx); err != nil && !errors.Is(err, domain.ErrRunAborted) {
			s.Logger.Warn("Background run failed", "error", err)
		}
	}()
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": string(domain.StatusRunning)})
}

// Reset handles the POST /reset request. An empty body reuses the
// current distribution.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	var body ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Reset: Invalid request body", "error", err)
		return
	}

	var dist domain.Distribution
	if body.Processes != nil {
		dist = make(domain.Distribution, len(body.Processes))
		for id, stack := range body.Processes {
			dist[domain.ProcessID(id)] = domain.ParseColors(stack)
		}
	}
	if err := s.Sim.Reset(r.Context(), dist); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Sim.State())
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "colorsort-http",
		"version": strings.TrimSpace(colorsort.Version),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrAlreadyRunning):
		code = http.StatusConflict
	case errors.Is(err, domain.ErrEmptyDistribution), errors.Is(err, domain.ErrUnknownColor):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrRunAborted), errors.Is(err, context.Canceled):
		code = http.StatusServiceUnavailable
	default:
		s.Logger.Error("Request failed", "error", err)
	}
	s.writeJSON(w, code, map[string]string{"error": err.Error()})
}
