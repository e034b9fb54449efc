package domain

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"assignment_service/internal/errdefs"
)

type Submission struct {
	ID                uuid.UUID `db:"id"`
	AssignmentID      uuid.UUID `db:"assignment_id"`
	UserID            uuid.UUID `db:"user_id"`
	SubmissionURL     string    `db:"submission_url"`
	Attempts          int       `db:"attempts"`
	SubmissionDate    time.Time `db:"submission_date"`
	SubmissionUpdated time.Time `db:"submission_updated"`
}

// SubmissionResult is the outcome of an accepted attempt.
type SubmissionResult struct {
	Submission *Submission
	// Created is true for the first accepted attempt and false for a resubmission.
	Created bool
	// NotifyErr is set when the submission was stored but the notification was not delivered.
	NotifyErr error
}

// SubmissionEvent is the message published for every accepted attempt.
type SubmissionEvent struct {
	UserEmail           string    `json:"user_email"`
	SubmissionURL       string    `json:"submission_url"`
	AssignmentID        uuid.UUID `json:"assignment_id"`
	AttemptNumber       int       `json:"attempt_number"`
	SubmissionTimestamp time.Time `json:"submission_timestamp"`
}

// ValidateSubmissionURL requires an absolute URL with a scheme and a host.
func ValidateSubmissionURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("submission_url must be a valid absolute URL: %w", errdefs.ErrValidation)
	}
	switch u.Scheme {
	case "http", "https", "ftp":
	default:
		return fmt.Errorf("submission_url has unsupported scheme %q: %w", u.Scheme, errdefs.ErrValidation)
	}
	return nil
}
