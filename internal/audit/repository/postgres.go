package repository

import (
	"context"
	"database/sql"

	"courier/backend/internal/audit/domain"
	"courier/backend/internal/db"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository that uses the given db for persistence.
func NewPostgresRepository(sqlDB *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: sqlDB}
}

// Create persists the audit log. The audit log must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, username, action, resource, ip, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.Username, a.Action, a.Resource, a.IP, a.Metadata, a.CreatedAt)
	if err != nil {
		return db.Unavailable(err)
	}
	return nil
}

// ListByUsername returns audit logs for the given user, newest first, paginated by limit and offset.
func (r *PostgresRepository) ListByUsername(ctx context.Context, username string, limit, offset int32) ([]*domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, action, resource, ip, metadata, created_at
		FROM audit_logs
		WHERE username = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, username, limit, offset)
	if err != nil {
		return nil, db.Unavailable(err)
	}
	defer rows.Close()

	var out []*domain.AuditLog
	for rows.Next() {
		var a domain.AuditLog
		if err := rows.Scan(&a.ID, &a.Username, &a.Action, &a.Resource, &a.IP, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, db.Unavailable(err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err)
	}
	return out, nil
}
