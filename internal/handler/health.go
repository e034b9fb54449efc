package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"assignment_service/internal/logging"
	"assignment_service/internal/metrics"
	"assignment_service/internal/middleware"
)

type HealthChecker interface {
	Check(ctx context.Context) error
}

type HealthHandler struct {
	checker HealthChecker
	metrics metrics.Recorder
}

func NewHealthHandler(checker HealthChecker, recorder metrics.Recorder) *HealthHandler {
	return &HealthHandler{checker: checker, metrics: recorder}
}

func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.HandleFunc("/healthz", h.Healthz)
}

// Healthz accepts only a bare GET: no body and no query string. Every call
// pings the database.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.metrics.Incr("healthz.calls")
	w.Header().Set("Cache-Control", middleware.NoCacheValue)

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if r.ContentLength > 0 || r.URL.RawQuery != "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if r.ContentLength < 0 {
		body, err := readBody(r)
		if err != nil || len(body) > 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	}

	if err := h.checker.Check(ctx); err != nil {
		if logger, ok := logging.GetFromContext(ctx); ok {
			logger.Warn(ctx, "health check failed", zap.Error(err))
		}
		writeMessage(w, http.StatusServiceUnavailable, "Database is not healthy")
		return
	}
	writeMessage(w, http.StatusOK, "Database is healthy")
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	data, _ := json.Marshal(map[string]string{"message": message})
	writeJSON(w, statusCode, data)
}
