package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"assignment_service/internal/logging"
	"assignment_service/internal/metrics"
	"assignment_service/internal/middleware"
)

type RouterConfig struct {
	Logger         *logging.Logger
	Metrics        *metrics.Prometheus
	RequestTimeout time.Duration

	Health      *HealthHandler
	Assignments *AssignmentHandler
	Submissions *SubmissionHandler

	// HealthGate and Auth run in that order in front of every resource route.
	HealthGate func(http.Handler) http.Handler
	Auth       func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(chimw.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, maxBodyBytes+1)
	})
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorJSON(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorJSON(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	cfg.Health.RegisterRoutes(r)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	gates := []func(http.Handler) http.Handler{cfg.HealthGate, cfg.Auth}
	cfg.Assignments.RegisterRoutes(r, gates...)
	cfg.Submissions.RegisterRoutes(r, gates...)

	return r
}
