// Package auth verifies HTTP basic credentials against stored bcrypt hashes.
package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"assignment_service/internal/domain"
	"assignment_service/internal/errdefs"
	"assignment_service/internal/logging"
	"assignment_service/internal/metrics"
)

const basicScheme = "Basic "

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . UserRepository

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type Authenticator struct {
	users   UserRepository
	logger  *logging.Logger
	metrics metrics.Recorder

	// dummyHash is compared against on the unknown-user path so that it
	// costs the same bcrypt work as a wrong password.
	dummyHash []byte
}

type Option func(*authOptions)

type authOptions struct {
	bcryptCost int
}

// WithBcryptCost sets the cost of the dummy hash. It should match the cost
// stored user hashes were generated with.
func WithBcryptCost(cost int) Option {
	return func(o *authOptions) {
		o.bcryptCost = cost
	}
}

func NewAuthenticator(users UserRepository, logger *logging.Logger, recorder metrics.Recorder, opts ...Option) *Authenticator {
	o := authOptions{bcryptCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("assignment-service-dummy"), o.bcryptCost)
	if err != nil {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("assignment-service-dummy"), bcrypt.DefaultCost)
	}
	return &Authenticator{users: users, logger: logger, metrics: recorder, dummyHash: dummy}
}

// Authenticate resolves an Authorization header of the form
// "Basic base64(email:password)" to the caller. Every failure is reported as
// errdefs.ErrUnauthenticated; lookup errors other than not-found are wrapped
// so the caller can tell a broken database from bad credentials.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (domain.Principal, error) {
	email, password, err := ParseBasicHeader(header)
	if err != nil {
		a.reject(ctx, "malformed authorization header", zap.Error(err))
		return domain.Principal{}, err
	}

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errdefs.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
			a.reject(ctx, "unknown user")
			return domain.Principal{}, errdefs.ErrUnauthenticated
		}
		a.logger.Error(ctx, "user lookup failed", zap.Error(err))
		return domain.Principal{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		a.reject(ctx, "password mismatch", zap.String("user_id", user.ID.String()))
		return domain.Principal{}, errdefs.ErrUnauthenticated
	}

	a.metrics.Incr("auth.success")
	return domain.Principal{UserID: user.ID, Email: user.Email}, nil
}

func (a *Authenticator) reject(ctx context.Context, reason string, fields ...zap.Field) {
	a.metrics.Incr("auth.failure")
	a.logger.Info(ctx, "authentication rejected", append(fields, zap.String("reason", reason))...)
}

// ParseBasicHeader splits a basic credential into email and password. The
// password may contain colons; the email may not.
func ParseBasicHeader(header string) (string, string, error) {
	if !strings.HasPrefix(header, basicScheme) {
		return "", "", fmt.Errorf("missing basic scheme: %w", errdefs.ErrUnauthenticated)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, basicScheme))
	if err != nil {
		return "", "", fmt.Errorf("invalid base64 credentials: %w", errdefs.ErrUnauthenticated)
	}

	email, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", fmt.Errorf("missing credential separator: %w", errdefs.ErrUnauthenticated)
	}
	if email == "" {
		return "", "", fmt.Errorf("empty email: %w", errdefs.ErrUnauthenticated)
	}

	return email, password, nil
}

// HashPassword returns the bcrypt hash stored for a user.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
