package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"assignment_service/internal/errdefs"
	"assignment_service/internal/logging"
	"assignment_service/internal/middleware"
)

// timeLayout renders timestamps in UTC with millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z"

const maxBodyBytes = 1 << 20

var ErrBadRequest = errors.New("bad request")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

func mapErr(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, errdefs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errdefs.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, errdefs.ErrPermissionDenied),
		errors.Is(err, errdefs.ErrDeadlinePassed),
		errors.Is(err, errdefs.ErrAttemptsExceeded):
		return http.StatusForbidden
	case errors.Is(err, errdefs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errdefs.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, errdefs.ErrNotificationFailed):
		return http.StatusBadGateway
	case errors.Is(err, errdefs.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeServiceError logs err and answers with the mapped status. Client
// errors carry their message; everything else gets the generic status text.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	statusCode := mapErr(err)

	if logger, ok := logging.GetFromContext(ctx); ok {
		fields := []zap.Field{
			zap.Int("status", statusCode),
			zap.Error(err),
		}
		if statusCode >= http.StatusInternalServerError {
			logger.Error(ctx, "request failed", fields...)
		} else {
			logger.Info(ctx, "request rejected", fields...)
		}
	}

	switch statusCode {
	case http.StatusUnauthorized:
		w.Header().Set("WWW-Authenticate", `Basic realm="assignments", charset="UTF-8"`)
	case http.StatusServiceUnavailable:
		w.Header().Set("Cache-Control", middleware.NoCacheValue)
	}

	message := http.StatusText(statusCode)
	if statusCode == http.StatusBadRequest {
		message = err.Error()
	}
	writeErrorJSON(w, statusCode, message)
}

func writeErrorJSON(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp, _ := json.Marshal(map[string]string{"error": message})
	w.Write(resp)
}

func writeJSON(w http.ResponseWriter, statusCode int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(data)
}

func parsePathParam(r *http.Request, key string) (string, error) {
	val := chi.URLParam(r, key)
	if val == "" {
		return "", fmt.Errorf("missing path param: %s", key)
	}
	return val, nil
}

// parseIDParam treats a malformed identifier like an unknown one.
func parseIDParam(r *http.Request, key string) (uuid.UUID, error) {
	raw, err := parsePathParam(r, key)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", err.Error(), errdefs.ErrNotFound)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("malformed id %q: %w", raw, errdefs.ErrNotFound)
	}
	return id, nil
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", ErrBadRequest)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("request body too large: %w", ErrBadRequest)
	}
	return body, nil
}

// decodeObject parses the body as a single JSON object and rejects keys
// outside allowed, repeated keys and missing keys listed in required.
func decodeObject(r *http.Request, allowed map[string]bool, required []string) (map[string]json.RawMessage, error) {
	body, err := readBody(r)
	if err != nil {
		return nil, err
	}

	errNotObject := fmt.Errorf("request body must be a JSON object: %w", ErrBadRequest)
	dec := json.NewDecoder(bytes.NewReader(body))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, errNotObject
	}

	fields := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errNotObject
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errNotObject
		}
		if _, dup := fields[key]; dup {
			return nil, fmt.Errorf("duplicate field %q: %w", key, ErrBadRequest)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, errNotObject
		}
		fields[key] = value
	}
	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return nil, errNotObject
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("request body must contain a single JSON object: %w", ErrBadRequest)
	}

	for key := range fields {
		if !allowed[key] {
			return nil, fmt.Errorf("unexpected field %q: %w", key, ErrBadRequest)
		}
	}
	for _, key := range required {
		if _, ok := fields[key]; !ok {
			return nil, fmt.Errorf("missing field %q: %w", key, ErrBadRequest)
		}
	}
	return fields, nil
}

func requireEmptyBody(r *http.Request) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) > 0 {
		return fmt.Errorf("request body must be empty: %w", ErrBadRequest)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
