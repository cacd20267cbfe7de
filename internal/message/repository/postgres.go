package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"courier/backend/internal/db"
	"courier/backend/internal/message/domain"
	userdomain "courier/backend/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a message repository that uses the given db for persistence.
func NewPostgresRepository(sqlDB *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: sqlDB}
}

// Create persists the message and assigns its ID from the messages sequence.
func (r *PostgresRepository) Create(ctx context.Context, m *domain.Message) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO messages (from_username, to_username, body, sent_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		m.FromUsername, m.ToUsername, m.Body, m.SentAt).Scan(&m.ID)
	if err != nil {
		return db.Unavailable(err)
	}
	return nil
}

// GetByID returns the message for id joined with both participant profiles,
// or nil if not found. It returns an error only for database failures.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT m.id, m.from_username, m.to_username, m.body, m.sent_at, m.read_at,
		       f.first_name, f.last_name, f.phone,
		       t.first_name, t.last_name, t.phone
		FROM messages m
		JOIN users f ON f.username = m.from_username
		JOIN users t ON t.username = m.to_username
		WHERE m.id = $1`, id)

	var m domain.Message
	var from, to userdomain.PublicProfile
	err := row.Scan(&m.ID, &m.FromUsername, &m.ToUsername, &m.Body, &m.SentAt, &m.ReadAt,
		&from.FirstName, &from.LastName, &from.Phone,
		&to.FirstName, &to.LastName, &to.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, db.Unavailable(err)
	}
	from.Username = m.FromUsername
	to.Username = m.ToUsername
	m.FromUser = &from
	m.ToUser = &to
	return &m, nil
}

// MarkRead sets read_at only when it is currently unset. The conditional
// update makes concurrent calls race-free: the first commit wins, later calls
// match zero rows.
func (r *PostgresRepository) MarkRead(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE messages SET read_at = $2
		WHERE id = $1 AND read_at IS NULL`, id, at)
	if err != nil {
		return db.Unavailable(err)
	}
	return nil
}

// ListFrom returns messages sent by username, oldest first, each joined with
// the recipient's public profile.
func (r *PostgresRepository) ListFrom(ctx context.Context, username string) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.from_username, m.to_username, m.body, m.sent_at, m.read_at,
		       t.first_name, t.last_name, t.phone
		FROM messages m
		JOIN users t ON t.username = m.to_username
		WHERE m.from_username = $1
		ORDER BY m.sent_at, m.id`, username)
	if err != nil {
		return nil, db.Unavailable(err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		var to userdomain.PublicProfile
		if err := rows.Scan(&m.ID, &m.FromUsername, &m.ToUsername, &m.Body, &m.SentAt, &m.ReadAt,
			&to.FirstName, &to.LastName, &to.Phone); err != nil {
			return nil, db.Unavailable(err)
		}
		to.Username = m.ToUsername
		m.ToUser = &to
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err)
	}
	return out, nil
}

// ListTo returns messages received by username, oldest first, each joined with
// the sender's public profile.
func (r *PostgresRepository) ListTo(ctx context.Context, username string) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.from_username, m.to_username, m.body, m.sent_at, m.read_at,
		       f.first_name, f.last_name, f.phone
		FROM messages m
		JOIN users f ON f.username = m.from_username
		WHERE m.to_username = $1
		ORDER BY m.sent_at, m.id`, username)
	if err != nil {
		return nil, db.Unavailable(err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		var from userdomain.PublicProfile
		if err := rows.Scan(&m.ID, &m.FromUsername, &m.ToUsername, &m.Body, &m.SentAt, &m.ReadAt,
			&from.FirstName, &from.LastName, &from.Phone); err != nil {
			return nil, db.Unavailable(err)
		}
		from.Username = m.FromUsername
		m.FromUser = &from
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err)
	}
	return out, nil
}
