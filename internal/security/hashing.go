package security

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher derives and verifies password digests using bcrypt. Callers must not
// log or persist plaintext passwords; only the digest leaves this package.
type Hasher struct {
	Cost int
}

// NewHasher returns a Hasher with the given bcrypt work factor (4–31).
// Out-of-range values are clamped; 0 selects the bcrypt default.
func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{Cost: cost}
}

// Hash produces a salted bcrypt digest of password, suitable for storage.
func (h *Hasher) Hash(password []byte) (string, error) {
	b, err := bcrypt.GenerateFromPassword(password, h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare verifies password against the stored digest in constant time.
// Returns nil on match; bcrypt.ErrMismatchedHashAndPassword (or another error
// for an invalid digest) otherwise.
func (h *Hasher) Compare(digest string, password []byte) error {
	return bcrypt.CompareHashAndPassword([]byte(digest), password)
}
