package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"courier/backend/internal/user/domain"
	"courier/backend/internal/user/repository"
)

type memUserRepo struct {
	mu sync.Mutex
	m  map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{m: make(map[string]*domain.User)}
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.m[username], nil
}

func (r *memUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[u.Username]; ok {
		return repository.ErrDuplicate
	}
	cp := *u
	r.m[u.Username] = &cp
	return nil
}

func (r *memUserRepo) TouchLogin(ctx context.Context, username string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.m[username]
	if !ok {
		return false, nil
	}
	u.LastLoginAt = at
	return true, nil
}

func (r *memUserRepo) All(ctx context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.m {
		out = append(out, *u)
	}
	return out, nil
}

func TestDirectoryGet(t *testing.T) {
	repo := newMemUserRepo()
	repo.m["alice"] = &domain.User{
		Username:       "alice",
		PasswordDigest: "secret-digest",
		FirstName:      "Alice",
		LastName:       "Anders",
		Phone:          "555-0100",
	}
	dir := NewDirectory(repo)

	p, err := dir.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Username != "alice" || p.FirstName != "Alice" || p.LastName != "Anders" || p.Phone != "555-0100" {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestDirectoryGetNotFound(t *testing.T) {
	dir := NewDirectory(newMemUserRepo())
	_, err := dir.Get(context.Background(), "ghost")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDirectoryAll(t *testing.T) {
	repo := newMemUserRepo()
	repo.m["alice"] = &domain.User{Username: "alice", PasswordDigest: "x", FirstName: "Alice", LastName: "Anders"}
	repo.m["bob"] = &domain.User{Username: "bob", PasswordDigest: "y", FirstName: "Bob", LastName: "Barker"}
	dir := NewDirectory(repo)

	profiles, err := dir.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	seen := make(map[string]bool)
	for _, p := range profiles {
		seen[p.Username] = true
	}
	if !seen["alice"] || !seen["bob"] {
		t.Errorf("missing usernames in %v", profiles)
	}
}

func TestDirectoryExists(t *testing.T) {
	repo := newMemUserRepo()
	repo.m["alice"] = &domain.User{Username: "alice", PasswordDigest: "x", FirstName: "Alice", LastName: "Anders"}
	dir := NewDirectory(repo)

	ok, err := dir.Exists(context.Background(), "alice")
	if err != nil || !ok {
		t.Fatalf("Exists(alice) = %v, %v", ok, err)
	}
	ok, err = dir.Exists(context.Background(), "ghost")
	if err != nil || ok {
		t.Fatalf("Exists(ghost) = %v, %v", ok, err)
	}
}
