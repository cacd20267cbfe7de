package repository

import (
	"context"
	"errors"
	"time"

	"courier/backend/internal/user/domain"
)

// ErrDuplicate is returned by Create when the username is already taken.
// Uniqueness is enforced by the store's primary key, not a check-then-insert.
var ErrDuplicate = errors.New("username already exists")

// Repository defines persistence for users.
type Repository interface {
	// GetByUsername returns the user for username, or nil if not found.
	// It returns an error only for database failures, not for missing rows.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// TouchLogin sets last_login_at for username. Returns false if no such user.
	TouchLogin(ctx context.Context, username string, at time.Time) (bool, error)
	All(ctx context.Context) ([]domain.User, error)
}
