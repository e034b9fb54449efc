package repository

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"assignment_service/internal/domain"
	"assignment_service/internal/errdefs"
)

const assignmentColumns = `
	id, user_id, name, points, num_of_attempts, deadline,
	assignment_created, assignment_updated`

type AssignmentRepository struct {
	db Querier
}

func NewAssignmentRepository(db Querier) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) (*domain.Assignment, error) {
	query := `
INSERT INTO assignments (` + assignmentColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + assignmentColumns

	var created domain.Assignment
	err := pgxscan.Get(ctx, r.db, &created, query,
		assignment.ID,
		assignment.UserID,
		assignment.Name,
		assignment.Points,
		assignment.NumOfAttempts,
		assignment.Deadline,
		assignment.AssignmentCreated,
		assignment.AssignmentUpdated,
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &created, nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`

	var assignment domain.Assignment
	if err := pgxscan.Get(ctx, r.db, &assignment, query, id); err != nil {
		return nil, handleError(err)
	}
	return &assignment, nil
}

func (r *AssignmentRepository) List(ctx context.Context) ([]*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments ORDER BY assignment_created, id`

	assignments := make([]*domain.Assignment, 0)
	if err := pgxscan.Select(ctx, r.db, &assignments, query); err != nil {
		return nil, handleError(err)
	}
	return assignments, nil
}

// Update rewrites the client-controlled fields of an assignment owned by
// ownerID. Zero matching rows yields errdefs.ErrNotFound.
func (r *AssignmentRepository) Update(
	ctx context.Context,
	id uuid.UUID,
	ownerID uuid.UUID,
	input *domain.AssignmentInput,
	updatedAt time.Time,
) (*domain.Assignment, error) {
	query := `
UPDATE assignments
SET name = $1, points = $2, num_of_attempts = $3, deadline = $4, assignment_updated = $5
WHERE id = $6 AND user_id = $7
RETURNING ` + assignmentColumns

	var updated domain.Assignment
	err := pgxscan.Get(ctx, r.db, &updated, query,
		input.Name,
		input.Points,
		input.NumOfAttempts,
		input.Deadline,
		updatedAt,
		id,
		ownerID,
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &updated, nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	query := `DELETE FROM assignments WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return errdefs.ErrNotFound
	}
	return nil
}
