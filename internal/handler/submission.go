package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"assignment_service/internal/domain"
	"assignment_service/internal/logging"
)

const notificationWarning = "submission stored but notification could not be delivered"

type SubmissionService interface {
	Submit(ctx context.Context, assignmentID uuid.UUID, submissionURL string) (*domain.SubmissionResult, error)
	Get(ctx context.Context, assignmentID uuid.UUID) (*domain.Submission, error)
}

var submissionFields = map[string]bool{"submission_url": true}

type SubmissionResponse struct {
	ID                string `json:"id"`
	AssignmentID      string `json:"assignment_id"`
	UserID            string `json:"user_id"`
	SubmissionURL     string `json:"submission_url"`
	Attempts          int    `json:"attempts"`
	SubmissionDate    string `json:"submission_date"`
	SubmissionUpdated string `json:"submission_updated"`
	Warning           string `json:"warning,omitempty"`
}

func toSubmissionResponse(s *domain.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:                s.ID.String(),
		AssignmentID:      s.AssignmentID.String(),
		UserID:            s.UserID.String(),
		SubmissionURL:     s.SubmissionURL,
		Attempts:          s.Attempts,
		SubmissionDate:    formatTime(s.SubmissionDate),
		SubmissionUpdated: formatTime(s.SubmissionUpdated),
	}
}

type SubmissionHandler struct {
	service SubmissionService
}

func NewSubmissionHandler(service SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router, middlewares ...func(http.Handler) http.Handler) {
	r.With(middlewares...).Post("/assignments/{id}/submissions", h.CreateSubmission)
	r.With(middlewares...).Get("/assignments/{id}/submissions", h.GetSubmission)
}

// CreateSubmission answers 201 for the first attempt and 200 for a
// resubmission. When the attempt was stored but the notification failed the
// stored state is still returned, with 502 and a warning. The body is
// validated before the path id, so a bad body answers 400 for any id.
func (h *SubmissionHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeObject(r, submissionFields, []string{"submission_url"})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var submissionURL string
	if err := decodeField(fields, "submission_url", &submissionURL); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := domain.ValidateSubmissionURL(submissionURL); err != nil {
		writeServiceError(w, r, err)
		return
	}
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	result, err := h.service.Submit(r.Context(), id, submissionURL)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := toSubmissionResponse(result.Submission)
	statusCode := http.StatusOK
	if result.Created {
		statusCode = http.StatusCreated
	}
	if result.NotifyErr != nil {
		ctx := r.Context()
		if logger, ok := logging.GetFromContext(ctx); ok {
			logger.Warn(ctx, "submission stored without notification",
				zap.String("submission_id", resp.ID),
				zap.Error(result.NotifyErr),
			)
		}
		statusCode = mapErr(result.NotifyErr)
		resp.Warning = notificationWarning
	}

	data, err := json.Marshal(resp)
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("failed to serialize response: %w", err))
		return
	}
	writeJSON(w, statusCode, data)
}

// GetSubmission returns the caller's own submission for the assignment, or
// 404 when the caller has not submitted yet.
func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	submission, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	data, err := json.Marshal(toSubmissionResponse(submission))
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("failed to serialize response: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, data)
}
