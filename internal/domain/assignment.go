package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"assignment_service/internal/errdefs"
)

const (
	MinPoints   = 1
	MaxPoints   = 10
	MinAttempts = 1
	MaxAttempts = 100
)

// deadlinePattern accepts only ISO-8601 timestamps with an explicit UTC designator.
var deadlinePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?[Zz]$`)

type Assignment struct {
	ID                uuid.UUID `db:"id"`
	UserID            uuid.UUID `db:"user_id"`
	Name              string    `db:"name"`
	Points            int       `db:"points"`
	NumOfAttempts     int       `db:"num_of_attempts"`
	Deadline          time.Time `db:"deadline"`
	AssignmentCreated time.Time `db:"assignment_created"`
	AssignmentUpdated time.Time `db:"assignment_updated"`
}

// IsOwnedBy reports whether the user may mutate the assignment.
func (a *Assignment) IsOwnedBy(userID uuid.UUID) bool {
	return a.UserID == userID
}

// DeadlinePassed reports whether a submission made at t is too late.
func (a *Assignment) DeadlinePassed(t time.Time) bool {
	return t.After(a.Deadline)
}

// AssignmentInput holds the client-controlled fields of an assignment.
type AssignmentInput struct {
	Name          string
	Points        int
	NumOfAttempts int
	Deadline      time.Time
}

func (in *AssignmentInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name must be a non-empty string: %w", errdefs.ErrValidation)
	}
	if in.Points < MinPoints || in.Points > MaxPoints {
		return fmt.Errorf("points must be between %d and %d: %w", MinPoints, MaxPoints, errdefs.ErrValidation)
	}
	if in.NumOfAttempts < MinAttempts || in.NumOfAttempts > MaxAttempts {
		return fmt.Errorf("num_of_attempts must be between %d and %d: %w", MinAttempts, MaxAttempts, errdefs.ErrValidation)
	}
	if in.Deadline.IsZero() {
		return fmt.Errorf("deadline is required: %w", errdefs.ErrValidation)
	}
	return nil
}

// ParseDeadline parses a deadline of the form YYYY-MM-DDTHH:mm:ss(.fff)Z.
func ParseDeadline(raw string) (time.Time, error) {
	if !deadlinePattern.MatchString(raw) {
		return time.Time{}, fmt.Errorf("deadline must be in the format YYYY-MM-DDTHH:mm:ssZ: %w", errdefs.ErrValidation)
	}
	t, err := time.Parse(time.RFC3339Nano, strings.ToUpper(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("deadline is not a valid date: %w", errdefs.ErrValidation)
	}
	return t.UTC(), nil
}
