package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"assignment_service/internal/domain"
	"assignment_service/internal/repository"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . AssignmentRepository,SubmissionRepository,Notifier

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) (*domain.Assignment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error)
	List(ctx context.Context) ([]*domain.Assignment, error)
	Update(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, input *domain.AssignmentInput, updatedAt time.Time) (*domain.Assignment, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
}

type SubmissionRepository interface {
	Submit(ctx context.Context, input *repository.SubmitInput) (*domain.Submission, bool, error)
	GetByAssignmentAndUser(ctx context.Context, assignmentID, userID uuid.UUID) (*domain.Submission, error)
}

type Notifier interface {
	Notify(ctx context.Context, event domain.SubmissionEvent) error
}
