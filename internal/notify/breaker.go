package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"assignment_service/internal/domain"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker opens after failureThreshold consecutive failures and lets a
// single trial call through once resetTimeout has elapsed.
type CircuitBreaker struct {
	mu               sync.Mutex
	state            CircuitState
	failureCount     int
	failureThreshold int
	resetTimeout     time.Duration
	lastFailureTime  time.Time
	now              func() time.Time
}

func NewCircuitBreaker(failureThreshold int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		now:              time.Now,
	}
}

func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastFailureTime) <= cb.resetTimeout {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.state = StateHalfOpen
	case StateHalfOpen:
		// a trial call is already in flight
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failureCount++
		cb.lastFailureTime = cb.now()
		if cb.state == StateHalfOpen || cb.failureCount >= cb.failureThreshold {
			cb.state = StateOpen
		}
		return err
	}

	cb.failureCount = 0
	cb.state = StateClosed
	return nil
}

type breakerNotifier struct {
	next    Notifier
	breaker *CircuitBreaker
}

// WithBreaker fails fast with ErrCircuitOpen while the broker keeps failing.
func WithBreaker(next Notifier, breaker *CircuitBreaker) Notifier {
	return &breakerNotifier{next: next, breaker: breaker}
}

func (b *breakerNotifier) Notify(ctx context.Context, event domain.SubmissionEvent) error {
	return b.breaker.Execute(func() error {
		return b.next.Notify(ctx, event)
	})
}
