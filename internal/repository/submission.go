package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"assignment_service/internal/domain"
	"assignment_service/internal/errdefs"
)

const submissionColumns = `
	id, assignment_id, user_id, submission_url, attempts,
	submission_date, submission_updated`

// SubmitInput describes one submission attempt.
type SubmitInput struct {
	ID            uuid.UUID
	AssignmentID  uuid.UUID
	UserID        uuid.UUID
	SubmissionURL string
	MaxAttempts   int
	SubmittedAt   time.Time
}

type submissionRow struct {
	domain.Submission
	Created bool `db:"created"`
}

type SubmissionRepository struct {
	db Querier
}

func NewSubmissionRepository(db Querier) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Submit records an attempt for the (assignment, user) pair in one statement.
// The first attempt inserts a row with attempts = 1; later attempts increment
// attempts and overwrite the URL, but only while attempts < MaxAttempts.
// The row lock taken by ON CONFLICT serialises concurrent attempts, so no
// increment is lost. When the limit is reached nothing is written and
// errdefs.ErrAttemptsExceeded is returned. created reports which path ran.
func (r *SubmissionRepository) Submit(ctx context.Context, input *SubmitInput) (*domain.Submission, bool, error) {
	query := `
INSERT INTO submissions AS s (` + submissionColumns + `)
VALUES ($1, $2, $3, $4, 1, $5, $5)
ON CONFLICT (assignment_id, user_id) DO UPDATE
SET submission_url = EXCLUDED.submission_url,
    attempts = s.attempts + 1,
    submission_updated = EXCLUDED.submission_updated
WHERE s.attempts < $6
RETURNING ` + submissionColumns + `, (xmax = 0) AS created`

	var row submissionRow
	err := pgxscan.Get(ctx, r.db, &row, query,
		input.ID,
		input.AssignmentID,
		input.UserID,
		input.SubmissionURL,
		input.SubmittedAt,
		input.MaxAttempts,
	)
	if err != nil {
		if isNotFound(err) {
			return nil, false, errdefs.ErrAttemptsExceeded
		}
		if isForeignKeyViolation(err) {
			return nil, false, errdefs.ErrNotFound
		}
		return nil, false, fmt.Errorf("failed to submit: %w", err)
	}
	return &row.Submission, row.Created, nil
}

func (r *SubmissionRepository) GetByAssignmentAndUser(ctx context.Context, assignmentID, userID uuid.UUID) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE assignment_id = $1 AND user_id = $2`

	var submission domain.Submission
	if err := pgxscan.Get(ctx, r.db, &submission, query, assignmentID, userID); err != nil {
		return nil, handleError(err)
	}
	return &submission, nil
}
