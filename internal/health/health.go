// Package health pings the database on every call.
package health

import (
	"context"
	"fmt"
	"time"

	"assignment_service/internal/errdefs"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Monitor struct {
	db      Pinger
	timeout time.Duration
}

func NewMonitor(db Pinger, timeout time.Duration) *Monitor {
	return &Monitor{db: db, timeout: timeout}
}

// Check reports errdefs.ErrUnavailable when the database does not answer
// within the configured timeout. Results are never cached.
func (m *Monitor) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: database ping failed: %v", errdefs.ErrUnavailable, err)
	}
	return nil
}
