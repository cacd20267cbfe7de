// Package service owns message entities and enforces their ownership rules
// independent of the transport layer.
package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"courier/backend/internal/audit"
	"courier/backend/internal/message/domain"
	"courier/backend/internal/message/repository"
)

// Sentinel errors for the message registry; the handler maps them to HTTP statuses.
var (
	ErrNotFound    = errors.New("message not found")
	ErrUnknownUser = errors.New("unknown user")
	ErrEmptyBody   = errors.New("message body is empty")
	ErrForbidden   = errors.New("operation not allowed for this user")
)

// UserDirectory is the minimal directory lookup needed by the registry.
type UserDirectory interface {
	Exists(ctx context.Context, username string) (bool, error)
}

// Registry creates, reads, and read-marks messages.
type Registry struct {
	messages repository.Repository
	users    UserDirectory
	auditor  audit.AuditLogger
	now      func() time.Time
}

// NewRegistry returns a Registry with the given dependencies.
// auditor may be nil; then no audit events are recorded.
func NewRegistry(messages repository.Repository, users UserDirectory, auditor audit.AuditLogger) *Registry {
	return &Registry{messages: messages, users: users, auditor: auditor, now: time.Now}
}

// Create persists a new message from fromUsername to toUsername. Both
// usernames must resolve in the directory; the body must be non-empty after
// trimming. The returned message carries both participant profiles.
func (r *Registry) Create(ctx context.Context, fromUsername, toUsername, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	for _, username := range []string{fromUsername, toUsername} {
		ok, err := r.users.Exists(ctx, username)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUnknownUser
		}
	}
	m := &domain.Message{
		FromUsername: fromUsername,
		ToUsername:   toUsername,
		Body:         body,
		SentAt:       r.now().UTC(),
	}
	if err := r.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	r.logEvent(ctx, fromUsername, "message_create", "message", "id="+strconv.FormatInt(m.ID, 10))
	return r.Get(ctx, m.ID)
}

// Get returns the message for id with both participant profiles. The caller
// must have already passed the ownership check for this message's
// participants; Get does not re-derive authorization.
func (r *Registry) Get(ctx context.Context, id int64) (*domain.Message, error) {
	m, err := r.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

// MarkRead sets the message's read timestamp. Only the recipient may mark a
// message read; the sender may view but not mark. Calling MarkRead on an
// already-read message is idempotent and returns the unchanged record, so the
// first setter's timestamp survives repeated calls.
func (r *Registry) MarkRead(ctx context.Context, id int64, requester string) (*domain.Message, error) {
	m, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if requester != m.ToUsername {
		return nil, ErrForbidden
	}
	if m.ReadAt != nil {
		return m, nil
	}
	if err := r.messages.MarkRead(ctx, id, r.now().UTC()); err != nil {
		return nil, err
	}
	r.logEvent(ctx, requester, "message_read", "message", "id="+strconv.FormatInt(id, 10))
	// Re-read rather than patching in memory: a concurrent caller may have
	// committed first, and its timestamp is the one that stands.
	return r.Get(ctx, id)
}

// ListFrom returns all messages sent by username, each enriched with the
// recipient's public profile.
func (r *Registry) ListFrom(ctx context.Context, username string) ([]domain.Message, error) {
	if err := r.requireKnownUser(ctx, username); err != nil {
		return nil, err
	}
	return r.messages.ListFrom(ctx, username)
}

// ListTo returns all messages received by username, each enriched with the
// sender's public profile.
func (r *Registry) ListTo(ctx context.Context, username string) ([]domain.Message, error) {
	if err := r.requireKnownUser(ctx, username); err != nil {
		return nil, err
	}
	return r.messages.ListTo(ctx, username)
}

func (r *Registry) requireKnownUser(ctx context.Context, username string) error {
	ok, err := r.users.Exists(ctx, username)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownUser
	}
	return nil
}

func (r *Registry) logEvent(ctx context.Context, username, action, resource, metadata string) {
	if r.auditor == nil {
		return
	}
	r.auditor.LogEvent(ctx, username, action, resource, metadata)
}
