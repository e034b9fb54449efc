package errdefs

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrUnauthenticated    = errors.New("authentication failed")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrUnavailable        = errors.New("service unavailable")
	ErrDeadlinePassed     = errors.New("assignment deadline passed")
	ErrAttemptsExceeded   = errors.New("number of attempts exceeded")
	ErrNotificationFailed = errors.New("notification failed")
)
