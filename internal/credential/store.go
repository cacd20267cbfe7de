// Package credential persists username to password-digest bindings and
// verifies passwords. Raw passwords never leave this package; the digest
// never leaves the store.
package credential

import (
	"context"
	"errors"
	"time"

	"courier/backend/internal/security"
	"courier/backend/internal/user/domain"
	"courier/backend/internal/user/repository"
)

var (
	// ErrDuplicateUsername is returned by Register when the username is taken.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrUserNotFound is returned when no user exists for the given username.
	ErrUserNotFound = errors.New("user not found")
)

// Profile carries the registration fields that are not credentials.
type Profile struct {
	FirstName string
	LastName  string
	Phone     string
}

type Store struct {
	users  repository.Repository
	hasher *security.Hasher
	now    func() time.Time
}

func NewStore(users repository.Repository, hasher *security.Hasher) *Store {
	return &Store{users: users, hasher: hasher, now: time.Now}
}

// Register creates a user with a salted digest of rawPassword. JoinAt and
// LastLoginAt are both set to the creation instant. Username uniqueness is
// enforced by the store's constraint, so concurrent registrations with the
// same username yield exactly one success.
func (s *Store) Register(ctx context.Context, username, rawPassword string, profile Profile) (*domain.User, error) {
	digest, err := s.hasher.Hash([]byte(rawPassword))
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := &domain.User{
		Username:       username,
		PasswordDigest: digest,
		FirstName:      profile.FirstName,
		LastName:       profile.LastName,
		Phone:          profile.Phone,
		JoinAt:         now,
		LastLoginAt:    now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return u, nil
}

// VerifyPassword reports whether rawPassword matches the stored digest for
// username. A mismatch is a normal outcome, not an error; the comparison is
// delegated to the digest library so it does not leak timing on byte
// mismatches. Returns ErrUserNotFound when the username does not exist.
func (s *Store) VerifyPassword(ctx context.Context, username, rawPassword string) (bool, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, ErrUserNotFound
	}
	if err := s.hasher.Compare(u.PasswordDigest, []byte(rawPassword)); err != nil {
		return false, nil
	}
	return true, nil
}

// TouchLogin sets the user's last login time to now. Returns ErrUserNotFound
// for unknown usernames.
func (s *Store) TouchLogin(ctx context.Context, username string) error {
	found, err := s.users.TouchLogin(ctx, username, s.now().UTC())
	if err != nil {
		return err
	}
	if !found {
		return ErrUserNotFound
	}
	return nil
}
