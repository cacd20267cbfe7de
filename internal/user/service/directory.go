// Package service provides read-only profile lookups over the user store.
package service

import (
	"context"
	"errors"

	"courier/backend/internal/user/domain"
	"courier/backend/internal/user/repository"
)

// ErrNotFound is returned when no user exists for the requested username.
var ErrNotFound = errors.New("user not found")

// Directory exposes public profiles. It never returns password digests.
type Directory struct {
	users repository.Repository
}

func NewDirectory(users repository.Repository) *Directory {
	return &Directory{users: users}
}

// All returns the public profile of every user.
func (d *Directory) All(ctx context.Context) ([]domain.PublicProfile, error) {
	users, err := d.users.All(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make([]domain.PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Public())
	}
	return profiles, nil
}

// Get returns the public profile for username, or ErrNotFound.
func (d *Directory) Get(ctx context.Context, username string) (domain.PublicProfile, error) {
	u, err := d.users.GetByUsername(ctx, username)
	if err != nil {
		return domain.PublicProfile{}, err
	}
	if u == nil {
		return domain.PublicProfile{}, ErrNotFound
	}
	return u.Public(), nil
}

// Exists reports whether username names a registered user.
func (d *Directory) Exists(ctx context.Context, username string) (bool, error) {
	u, err := d.users.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}
