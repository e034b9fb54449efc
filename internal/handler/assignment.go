package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"assignment_service/internal/cache"
	"assignment_service/internal/domain"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . AssignmentService,SubmissionService,HealthChecker

type AssignmentService interface {
	Create(ctx context.Context, input *domain.AssignmentInput) (*domain.Assignment, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Assignment, error)
	List(ctx context.Context) ([]*domain.Assignment, error)
	Update(ctx context.Context, id uuid.UUID, input *domain.AssignmentInput) (*domain.Assignment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var (
	assignmentFields = map[string]bool{
		"name":               true,
		"points":             true,
		"num_of_attempts":    true,
		"deadline":           true,
		"assignment_created": true,
		"assignment_updated": true,
	}
	requiredAssignmentFields = []string{"name", "points", "num_of_attempts", "deadline"}
)

type AssignmentResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Points            int    `json:"points"`
	NumOfAttempts     int    `json:"num_of_attempts"`
	Deadline          string `json:"deadline"`
	AssignmentCreated string `json:"assignment_created"`
	AssignmentUpdated string `json:"assignment_updated"`
}

func toAssignmentResponse(a *domain.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:                a.ID.String(),
		Name:              a.Name,
		Points:            a.Points,
		NumOfAttempts:     a.NumOfAttempts,
		Deadline:          formatTime(a.Deadline),
		AssignmentCreated: formatTime(a.AssignmentCreated),
		AssignmentUpdated: formatTime(a.AssignmentUpdated),
	}
}

type AssignmentHandler struct {
	service  AssignmentService
	cache    Cache
	cacheTTL time.Duration

	// invalidations counts cache invalidations. A read that overlaps one
	// does not fill the cache.
	invalidations atomic.Uint64
}

func NewAssignmentHandler(service AssignmentService, c Cache, cacheTTL time.Duration) *AssignmentHandler {
	if c == nil {
		c = cache.Noop{}
	}
	return &AssignmentHandler{service: service, cache: c, cacheTTL: cacheTTL}
}

func (h *AssignmentHandler) RegisterRoutes(r chi.Router, middlewares ...func(http.Handler) http.Handler) {
	r.With(middlewares...).Group(func(r chi.Router) {
		r.Post("/assignments", h.CreateAssignment)
		r.Get("/assignments", h.ListAssignments)
		r.Get("/assignments/{id}", h.GetAssignment)
		r.Put("/assignments/{id}", h.UpdateAssignment)
		r.Delete("/assignments/{id}", h.DeleteAssignment)
	})
}

func (h *AssignmentHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	input, err := parseAssignmentInput(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	data, err := json.Marshal(toAssignmentResponse(created))
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("failed to serialize response: %w", err))
		return
	}
	writeJSON(w, http.StatusCreated, data)
}

func (h *AssignmentHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := make([]AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		resp = append(resp, toAssignmentResponse(a))
	}
	data, err := json.Marshal(resp)
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("failed to serialize response: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// GetAssignment serves from the cache when it can. Authentication has already
// run by the time the cache is consulted.
func (h *AssignmentHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	key := cache.AssignmentKey(id.String())
	if data, ok := h.cache.Get(ctx, key); ok {
		writeJSON(w, http.StatusOK, data)
		return
	}

	generation := h.invalidations.Load()
	assignment, err := h.service.Get(ctx, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	data, err := json.Marshal(toAssignmentResponse(assignment))
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("failed to serialize response: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, data)
	if h.invalidations.Load() == generation {
		h.cache.Set(ctx, key, data, h.cacheTTL)
	}
}

func (h *AssignmentHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	input, err := parseAssignmentInput(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if _, err := h.service.Update(r.Context(), id, input); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.invalidate(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AssignmentHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := requireEmptyBody(r); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.invalidate(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AssignmentHandler) invalidate(ctx context.Context, id uuid.UUID) {
	h.invalidations.Add(1)
	h.cache.Delete(ctx, cache.AssignmentKey(id.String()))
}

// parseAssignmentInput enforces the payload shape. Client supplied
// assignment_created and assignment_updated are accepted and ignored.
func parseAssignmentInput(r *http.Request) (*domain.AssignmentInput, error) {
	fields, err := decodeObject(r, assignmentFields, requiredAssignmentFields)
	if err != nil {
		return nil, err
	}

	var input domain.AssignmentInput
	if err := decodeField(fields, "name", &input.Name); err != nil {
		return nil, err
	}
	if err := decodeField(fields, "points", &input.Points); err != nil {
		return nil, err
	}
	if err := decodeField(fields, "num_of_attempts", &input.NumOfAttempts); err != nil {
		return nil, err
	}

	var deadline string
	if err := decodeField(fields, "deadline", &deadline); err != nil {
		return nil, err
	}
	input.Deadline, err = domain.ParseDeadline(deadline)
	if err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	return &input, nil
}

// decodeField rejects null and any value whose JSON type differs from dst,
// so 1.5 and "1" are not accepted as integers.
func decodeField(fields map[string]json.RawMessage, key string, dst any) error {
	raw := bytes.TrimSpace(fields[key])
	if bytes.Equal(raw, []byte("null")) {
		return fmt.Errorf("field %q must not be null: %w", key, ErrBadRequest)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %q has the wrong type: %w", key, ErrBadRequest)
	}
	return nil
}
