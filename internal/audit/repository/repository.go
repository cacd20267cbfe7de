package repository

import (
	"context"

	"courier/backend/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	Create(ctx context.Context, a *domain.AuditLog) error
	ListByUsername(ctx context.Context, username string, limit, offset int32) ([]*domain.AuditLog, error)
}
