// Package web exposes the evaluation service over HTTP: submit a
// prompt, list past experiments, and read per-model analytics.
package web

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/llmetrics/llmetrics/internal/application"
	"github.com/llmetrics/llmetrics/internal/ports"
)

// EvaluationService runs one evaluation end to end. Satisfied by
// application.Orchestrator.
type EvaluationService interface {
	Evaluate(ctx context.Context, request application.EvaluateRequest) (application.Evaluation, error)
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	service EvaluationService
	store   ports.ExperimentStore
	logger  *slog.Logger
}

// NewServer creates the HTTP layer over the evaluation service and
// experiment store.
func NewServer(service EvaluationService, store ports.ExperimentStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{service: service, store: store, logger: logger}
}

// Router builds the chi router with all API routes. extra handlers
// (such as the Prometheus endpoint) may be mounted by the caller.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/api/evaluate", s.handleEvaluate)
	r.Get("/api/experiments", s.handleListExperiments)
	r.Get("/api/analytics", s.handleAnalytics)

	return r
}
