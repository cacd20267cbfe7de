package repository

import (
	"context"
	"time"

	"courier/backend/internal/message/domain"
)

// Repository defines persistence for messages.
type Repository interface {
	// Create persists the message and assigns its ID from the store sequence.
	Create(ctx context.Context, m *domain.Message) error
	// GetByID returns the message for id with both participant profiles, or
	// nil if not found. It returns an error only for database failures.
	GetByID(ctx context.Context, id int64) (*domain.Message, error)
	// MarkRead sets read_at to at only if it is currently unset. The store
	// performs this as one conditional update, so under concurrent calls the
	// first commit wins and later calls are no-ops.
	MarkRead(ctx context.Context, id int64, at time.Time) error
	// ListFrom returns messages sent by username, enriched with each
	// recipient's public profile.
	ListFrom(ctx context.Context, username string) ([]domain.Message, error)
	// ListTo returns messages received by username, enriched with each
	// sender's public profile.
	ListTo(ctx context.Context, username string) ([]domain.Message, error)
}
