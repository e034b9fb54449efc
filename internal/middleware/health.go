package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"assignment_service/internal/logging"
)

const NoCacheValue = "no-cache, no-store, must-revalidate"

type HealthChecker interface {
	Check(ctx context.Context) error
}

// NewHealthGate rejects requests with 503 while the database is unreachable.
// The check runs on every request.
func NewHealthGate(checker HealthChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if err := checker.Check(ctx); err != nil {
				if logger, ok := logging.GetFromContext(ctx); ok {
					logger.Warn(ctx, "rejecting request, database unavailable",
						zap.String("path", r.URL.Path),
						zap.Error(err),
					)
				}
				writeUnavailable(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeUnavailable(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", NoCacheValue)
	writeError(w, http.StatusServiceUnavailable)
}

func writeError(w http.ResponseWriter, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp, _ := json.Marshal(map[string]string{"error": http.StatusText(statusCode)})
	w.Write(resp)
}
