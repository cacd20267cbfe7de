package domain

import (
	"errors"
	"time"
)

// User is the core user entity. PasswordDigest is never serialized outward.
type User struct {
	Username       string    `json:"username"`
	PasswordDigest string    `json:"-"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Phone          string    `json:"phone"`
	JoinAt         time.Time `json:"join_at"`
	LastLoginAt    time.Time `json:"last_login_at"`
}

// PublicProfile is the subset of user fields safe to expose to any caller.
type PublicProfile struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Username == "" {
		return errors.New("username is required")
	}
	if u.PasswordDigest == "" {
		return errors.New("password digest is required")
	}
	if u.FirstName == "" {
		return errors.New("first name is required")
	}
	if u.LastName == "" {
		return errors.New("last name is required")
	}
	return nil
}

// Public returns the user's public profile.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}
