package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"courier/backend/internal/db"
	"courier/backend/internal/user/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(sqlDB *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: sqlDB}
}

// GetByUsername returns the user for username, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT username, password_digest, first_name, last_name, phone, join_at, last_login_at
		FROM users
		WHERE username = $1`, username)

	var u domain.User
	err := row.Scan(&u.Username, &u.PasswordDigest, &u.FirstName, &u.LastName, &u.Phone, &u.JoinAt, &u.LastLoginAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, db.Unavailable(err)
	}
	return &u, nil
}

// Create persists the user. Returns ErrDuplicate when the username is taken;
// the primary key constraint decides, so concurrent registrations cannot both win.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, password_digest, first_name, last_name, phone, join_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.Username, u.PasswordDigest, u.FirstName, u.LastName, u.Phone, u.JoinAt, u.LastLoginAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return db.Unavailable(err)
	}
	return nil
}

// TouchLogin sets last_login_at for username. Returns false if no such user.
func (r *PostgresRepository) TouchLogin(ctx context.Context, username string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET last_login_at = $2 WHERE username = $1`, username, at)
	if err != nil {
		return false, db.Unavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, db.Unavailable(err)
	}
	return n > 0, nil
}

// All returns every user ordered by username.
func (r *PostgresRepository) All(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT username, password_digest, first_name, last_name, phone, join_at, last_login_at
		FROM users
		ORDER BY username`)
	if err != nil {
		return nil, db.Unavailable(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.Username, &u.PasswordDigest, &u.FirstName, &u.LastName, &u.Phone, &u.JoinAt, &u.LastLoginAt); err != nil {
			return nil, db.Unavailable(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err)
	}
	return users, nil
}
