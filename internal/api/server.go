// Package api exposes the HTTP interface for the lead-generation service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leadflowhq/leadflow/internal/artifact"
	"github.com/leadflowhq/leadflow/internal/config"
	"github.com/leadflowhq/leadflow/internal/leads"
	"github.com/leadflowhq/leadflow/internal/metrics"
)

// Submitter accepts new jobs. Satisfied by the orchestrator.
type Submitter interface {
	Submit(ctx context.Context, query string, maxResults int) (string, error)
}

// Server wires HTTP handlers to the orchestrator and job store.
type Server struct {
	router   chi.Router
	jobStore leads.JobStore
	jobs     Submitter
	cfg      config.Config
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(jobStore leads.JobStore, jobs Submitter, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		jobStore: jobStore,
		jobs:     jobs,
		cfg:      cfg,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(timeoutMiddleware(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Post("/api/scrape", s.submitScrape)
	r.Get("/api/status/{task_id}", s.getStatus)

	resultsFS := http.StripPrefix(artifact.DownloadPathPrefix+"/",
		http.FileServer(http.Dir(cfg.Storage.ResultsDir)))
	r.Method(http.MethodGet, artifact.DownloadPathPrefix+"/*", resultsFS)

	// Anything else falls through to the prebuilt frontend, when present.
	r.NotFound(s.serveFrontend)

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type scrapeRequest struct {
	Query      string `json:"query"`
	MaxResults *int   `json:"max_results"`
}

func (s *Server) submitScrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	maxResults := s.cfg.Apify.DefaultMaxResults
	if req.MaxResults != nil {
		maxResults = *req.MaxResults
	}

	taskID, err := s.jobs.Submit(r.Context(), req.Query, maxResults)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
}

type statusResponse struct {
	TaskID       string  `json:"task_id"`
	Status       string  `json:"status"`
	Progress     int     `json:"progress"`
	ResultsCount int     `json:"results_count"`
	CSVURL       *string `json:"csv_url"`
	Error        *string `json:"error"`
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "task_id")
	job, err := s.jobStore.GetJob(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, leads.ErrJobNotFound) {
			s.writeError(w, http.StatusNotFound, "task not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "job lookup failed")
		return
	}

	resp := statusResponse{
		TaskID:       job.ID,
		Status:       string(job.Status),
		Progress:     job.Progress,
		ResultsCount: job.ResultsCount,
	}
	if job.CSVURL != "" {
		resp.CSVURL = &job.CSVURL
	}
	if job.ErrorText != "" {
		resp.Error = &job.ErrorText
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// serveFrontend serves the prebuilt SPA: direct asset hits by path, everything
// else gets index.html so client-side routing works. Without a static dir the
// fallthrough is a plain JSON 404.
func (s *Server) serveFrontend(w http.ResponseWriter, r *http.Request) {
	staticDir := s.cfg.Storage.StaticDir
	if staticDir == "" || r.Method != http.MethodGet {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	if info, err := os.Stat(staticDir); err != nil || !info.IsDir() {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}

	requested := filepath.Join(staticDir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(requested); err == nil && !info.IsDir() {
		http.ServeFile(w, r, requested)
		return
	}

	index := filepath.Join(staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	http.ServeFile(w, r, index)
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		metrics.ObserveHTTPRequest(r.Method, ww.status)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

type requestIDKey struct{}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
