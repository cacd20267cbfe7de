package domain

import (
	"time"

	userdomain "courier/backend/internal/user/domain"
)

// Message is a directed text message between two users. SentAt is set once at
// creation; ReadAt is set at most once, by the recipient, and never changes
// afterwards.
type Message struct {
	ID           int64      `json:"id"`
	FromUsername string     `json:"from_username"`
	ToUsername   string     `json:"to_username"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at"`

	// FromUser and ToUser carry the counterpart's public profile on list and
	// get responses. Nil when not enriched.
	FromUser *userdomain.PublicProfile `json:"from_user,omitempty"`
	ToUser   *userdomain.PublicProfile `json:"to_user,omitempty"`
}

// Owners returns the set of usernames allowed to read the message.
func (m *Message) Owners() []string {
	return []string{m.FromUsername, m.ToUsername}
}
