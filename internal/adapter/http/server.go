package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/forecast-screen/internal/screen"
)

// Screen is the render driver surface exposed over HTTP.
type Screen interface {
	CheckReadiness(ctx context.Context) error
	Snapshot() screen.Snapshot
	Retry() error
	Dismiss() error
	Toggle(i int) error
}

// Server exposes the forecast screen plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	screen     Screen
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the /forecast routes.
func NewServer(addr string, scr Screen, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		screen: scr,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(scr))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /forecast", s.handleSnapshot)
	mux.HandleFunc("POST /forecast/retry", s.handleRetry)
	mux.HandleFunc("POST /forecast/dismiss", s.handleDismiss)
	mux.HandleFunc("POST /forecast/days/{index}/toggle", s.handleToggle)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.screen.Snapshot())
}

func (s *Server) handleRetry(w http.ResponseWriter, _ *http.Request) {
	if err := s.screen.Retry(); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, s.screen.Snapshot())
}

func (s *Server) handleDismiss(w http.ResponseWriter, _ *http.Request) {
	if err := s.screen.Dismiss(); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.screen.Snapshot())
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day index must be an integer"})
		return
	}
	if err := s.screen.Toggle(index); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.screen.Snapshot())
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, screen.ErrFetchInFlight),
		errors.Is(err, screen.ErrNotInErrorState),
		errors.Is(err, screen.ErrNoContent):
		status = http.StatusConflict
	case errors.Is(err, screen.ErrCardIndex):
		status = http.StatusNotFound
	case errors.Is(err, screen.ErrClosed):
		status = http.StatusServiceUnavailable
	default:
		s.logger.Error("screen action failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
