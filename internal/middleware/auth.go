package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"assignment_service/internal/ctxdata"
	"assignment_service/internal/domain"
	"assignment_service/internal/errdefs"
	"assignment_service/internal/logging"
)

type Authenticator interface {
	Authenticate(ctx context.Context, header string) (domain.Principal, error)
}

// NewAuthMiddleware authenticates every request with HTTP basic credentials
// and stores the principal in the request context.
func NewAuthMiddleware(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			principal, err := authenticator.Authenticate(ctx, r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, errdefs.ErrUnauthenticated) {
					w.Header().Set("WWW-Authenticate", `Basic realm="assignments", charset="UTF-8"`)
					writeError(w, http.StatusUnauthorized)
					return
				}
				if logger, ok := logging.GetFromContext(ctx); ok {
					logger.Error(ctx, "authentication failed",
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.Error(err),
					)
				}
				if errors.Is(err, errdefs.ErrUnavailable) {
					writeUnavailable(w)
					return
				}
				writeError(w, http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctxdata.WithPrincipal(ctx, principal)))
		})
	}
}
