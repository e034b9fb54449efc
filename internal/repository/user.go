package repository

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"

	"assignment_service/internal/domain"
)

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail matches the email exactly, case included.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
SELECT
	id, first_name, last_name, email, password_hash,
	account_created, account_updated
FROM users
WHERE email = $1
`
	var user domain.User
	if err := pgxscan.Get(ctx, r.db, &user, query, email); err != nil {
		return nil, handleError(err)
	}
	return &user, nil
}

// Create inserts a user. An existing email yields errdefs.ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
INSERT INTO users (
	id, first_name, last_name, email, password_hash,
	account_created, account_updated
)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING
	id, first_name, last_name, email, password_hash,
	account_created, account_updated
`
	var created domain.User
	err := pgxscan.Get(ctx, r.db, &created, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.AccountCreated,
		user.AccountUpdated,
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &created, nil
}
