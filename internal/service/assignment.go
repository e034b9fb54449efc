package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"assignment_service/internal/domain"
	"assignment_service/internal/errdefs"
	"assignment_service/internal/logging"
	"assignment_service/internal/metrics"
)

type AssignmentService struct {
	repo    AssignmentRepository
	logger  *logging.Logger
	metrics metrics.Recorder
	opts    options
}

func NewAssignmentService(
	repo AssignmentRepository,
	logger *logging.Logger,
	recorder metrics.Recorder,
	opts ...Option,
) *AssignmentService {
	return &AssignmentService{
		repo:    repo,
		logger:  logger,
		metrics: recorder,
		opts:    applyOptions(opts),
	}
}

// Create stores a new assignment owned by the caller. Identifier and
// timestamps are always assigned here.
func (s *AssignmentService) Create(ctx context.Context, input *domain.AssignmentInput) (*domain.Assignment, error) {
	principal, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate assignment id: %w", err)
	}
	now := timestamp(s.opts.now)

	created, err := s.repo.Create(ctx, &domain.Assignment{
		ID:                id,
		UserID:            principal.UserID,
		Name:              input.Name,
		Points:            input.Points,
		NumOfAttempts:     input.NumOfAttempts,
		Deadline:          input.Deadline,
		AssignmentCreated: now,
		AssignmentUpdated: now,
	})
	if err != nil {
		s.logger.Error(ctx, "failed to create assignment", zap.Error(err))
		return nil, err
	}

	s.metrics.Incr("assignment.created")
	s.logger.Info(ctx, "assignment created", zap.String("assignment_id", created.ID.String()))
	return created, nil
}

func (s *AssignmentService) Get(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	if _, err := principalFrom(ctx); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *AssignmentService) List(ctx context.Context) ([]*domain.Assignment, error) {
	if _, err := principalFrom(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Update replaces the client-controlled fields. Only the owner may update;
// assignment_created is preserved and assignment_updated is refreshed.
func (s *AssignmentService) Update(ctx context.Context, id uuid.UUID, input *domain.AssignmentInput) (*domain.Assignment, error) {
	principal, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, id, principal); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, principal.UserID, input, timestamp(s.opts.now))
	if err != nil {
		return nil, err
	}

	s.metrics.Incr("assignment.updated")
	s.logger.Info(ctx, "assignment updated", zap.String("assignment_id", id.String()))
	return updated, nil
}

// Delete removes an assignment owned by the caller together with its submissions.
func (s *AssignmentService) Delete(ctx context.Context, id uuid.UUID) error {
	principal, err := principalFrom(ctx)
	if err != nil {
		return err
	}
	if err := s.checkOwner(ctx, id, principal); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, principal.UserID); err != nil {
		return err
	}

	s.metrics.Incr("assignment.deleted")
	s.logger.Info(ctx, "assignment deleted", zap.String("assignment_id", id.String()))
	return nil
}

func (s *AssignmentService) checkOwner(ctx context.Context, id uuid.UUID, principal domain.Principal) error {
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !assignment.IsOwnedBy(principal.UserID) {
		s.logger.Info(ctx, "assignment ownership check failed", zap.String("assignment_id", id.String()))
		return fmt.Errorf("assignment belongs to another user: %w", errdefs.ErrPermissionDenied)
	}
	return nil
}
