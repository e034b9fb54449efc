package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"assignment_service/internal/domain"
	"assignment_service/internal/errdefs"
	"assignment_service/internal/logging"
	"assignment_service/internal/metrics"
	"assignment_service/internal/repository"
)

// Stage names the last step a submission reached. It is attached to every
// rejection log line.
type Stage string

const (
	StageAdmitted           Stage = "ADMITTED"
	StageAuthenticated      Stage = "AUTHENTICATED"
	StageAssignmentResolved Stage = "ASSIGNMENT_RESOLVED"
	StageWindowChecked      Stage = "WINDOW_CHECKED"
	StageAttemptChecked     Stage = "ATTEMPT_CHECKED"
	StagePersisted          Stage = "PERSISTED"
	StageNotified           Stage = "NOTIFIED"
)

type SubmissionService struct {
	assignments   AssignmentRepository
	submissions   SubmissionRepository
	notifier      Notifier
	notifyTimeout time.Duration
	logger        *logging.Logger
	metrics       metrics.Recorder
	opts          options
}

func NewSubmissionService(
	assignments AssignmentRepository,
	submissions SubmissionRepository,
	notifier Notifier,
	notifyTimeout time.Duration,
	logger *logging.Logger,
	recorder metrics.Recorder,
	opts ...Option,
) *SubmissionService {
	return &SubmissionService{
		assignments:   assignments,
		submissions:   submissions,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		logger:        logger,
		metrics:       recorder,
		opts:          applyOptions(opts),
	}
}

// Submit records one attempt by the caller. Admission and authentication
// happen before this call; the principal must already be in ctx.
//
// The returned error is nil whenever the attempt was stored. A failed
// notification is reported through SubmissionResult.NotifyErr and never
// undoes the write.
func (s *SubmissionService) Submit(ctx context.Context, assignmentID uuid.UUID, submissionURL string) (*domain.SubmissionResult, error) {
	principal, err := principalFrom(ctx)
	if err != nil {
		return nil, s.reject(ctx, StageAdmitted, assignmentID, err)
	}
	if err := domain.ValidateSubmissionURL(submissionURL); err != nil {
		return nil, s.reject(ctx, StageAuthenticated, assignmentID, err)
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, s.reject(ctx, StageAuthenticated, assignmentID, err)
	}

	now := timestamp(s.opts.now)
	if assignment.DeadlinePassed(now) {
		return nil, s.reject(ctx, StageAssignmentResolved, assignmentID, errdefs.ErrDeadlinePassed)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate submission id: %w", err)
	}

	submission, created, err := s.submissions.Submit(ctx, &repository.SubmitInput{
		ID:            id,
		AssignmentID:  assignmentID,
		UserID:        principal.UserID,
		SubmissionURL: submissionURL,
		MaxAttempts:   assignment.NumOfAttempts,
		SubmittedAt:   now,
	})
	if err != nil {
		return nil, s.reject(ctx, StageWindowChecked, assignmentID, err)
	}

	if created {
		s.metrics.Incr("submission.created")
	} else {
		s.metrics.Incr("submission.updated")
	}
	s.logger.Info(ctx, "submission stored",
		zap.String("assignment_id", assignmentID.String()),
		zap.String("submission_id", submission.ID.String()),
		zap.Int("attempts", submission.Attempts),
		zap.String("stage", string(StagePersisted)),
	)

	result := &domain.SubmissionResult{Submission: submission, Created: created}

	event := domain.SubmissionEvent{
		UserEmail:           principal.Email,
		SubmissionURL:       submission.SubmissionURL,
		AssignmentID:        assignmentID,
		AttemptNumber:       submission.Attempts,
		SubmissionTimestamp: submission.SubmissionUpdated,
	}
	if err := s.notify(ctx, event); err != nil {
		s.metrics.Incr("notification.failed")
		s.logger.Error(ctx, "submission notification failed",
			zap.String("assignment_id", assignmentID.String()),
			zap.String("submission_id", submission.ID.String()),
			zap.String("stage", string(StagePersisted)),
			zap.Error(err),
		)
		result.NotifyErr = fmt.Errorf("%w: %v", errdefs.ErrNotificationFailed, err)
		return result, nil
	}

	s.metrics.Incr("notification.sent")
	s.logger.Debug(ctx, "submission notification sent",
		zap.String("submission_id", submission.ID.String()),
		zap.String("stage", string(StageNotified)),
	)
	return result, nil
}

// Get returns the caller's stored submission for the assignment. Callers only
// ever see their own row.
func (s *SubmissionService) Get(ctx context.Context, assignmentID uuid.UUID) (*domain.Submission, error) {
	principal, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	return s.submissions.GetByAssignmentAndUser(ctx, assignmentID, principal.UserID)
}

// notify runs the notifier on its own goroutine. The context is detached from
// the request so a client hang-up does not cancel a publish that is already
// owed, and bounded by notifyTimeout so a stuck broker cannot hold the request.
func (s *SubmissionService) notify(ctx context.Context, event domain.SubmissionEvent) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.notifier.Notify(ctx, event)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("notification timed out after %s: %w", s.notifyTimeout, ctx.Err())
	}
}

func (s *SubmissionService) reject(ctx context.Context, reached Stage, assignmentID uuid.UUID, err error) error {
	fields := []zap.Field{
		zap.String("assignment_id", assignmentID.String()),
		zap.String("stage", string(reached)),
		zap.Error(err),
	}

	switch {
	case errors.Is(err, errdefs.ErrDeadlinePassed):
		s.metrics.Incr("submission.rejected.deadline")
	case errors.Is(err, errdefs.ErrAttemptsExceeded):
		s.metrics.Incr("submission.rejected.attempts")
	case errors.Is(err, errdefs.ErrValidation), errors.Is(err, errdefs.ErrNotFound), errors.Is(err, errdefs.ErrUnauthenticated):
		s.metrics.Incr("submission.rejected")
	default:
		s.logger.Error(ctx, "submission failed", fields...)
		return err
	}

	s.logger.Info(ctx, "submission rejected", fields...)
	return err
}
