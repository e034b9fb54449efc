// Package service holds the assignment and submission business rules.
package service

import (
	"context"
	"time"

	"assignment_service/internal/ctxdata"
	"assignment_service/internal/domain"
	"assignment_service/internal/errdefs"
)

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now as the source of server-set timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func applyOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Timestamps are kept at millisecond precision so stored and returned values agree.
func timestamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Millisecond)
}

func principalFrom(ctx context.Context) (domain.Principal, error) {
	principal, ok := ctxdata.GetPrincipal(ctx)
	if !ok {
		return domain.Principal{}, errdefs.ErrUnauthenticated
	}
	return principal, nil
}
