// Package http wires the evaluation API onto a chi route tree and an
// http.Server with graceful shutdown.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/TalentScreen/internal/interfaces/http/handlers"
	"github.com/turtacn/TalentScreen/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and infrastructure the route tree
// needs.  Nil handlers simply leave their routes unmounted.
type RouterConfig struct {
	EvaluationHandler *handlers.EvaluationHandler
	HealthHandler     *handlers.HealthHandler

	Logger  logging.Logger
	Metrics *prometheus.Metrics
}

// NewRouter constructs the complete route tree: public probes, the metrics
// scrape endpoint, and the versioned API group.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, "/healthz", "/readyz", "/metrics"))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.EvaluationHandler != nil {
			api.Route("/submissions/{submissionID}", func(sr chi.Router) {
				sr.Post("/evaluate", cfg.EvaluationHandler.Evaluate)
				sr.Get("/report", cfg.EvaluationHandler.Report)
			})
		}
	})

	return r
}
