package credential

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"courier/backend/internal/security"
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

func newTestStore() (*Store, *memUserRepo) {
	repo := newMemUserRepo()
	return NewStore(repo, security.NewHasher(bcrypt.MinCost)), repo
}

func TestRegisterStoresDigestNotPassword(t *testing.T) {
	store, repo := newTestStore()

	u, err := store.Register(context.Background(), "alice", "secret1", Profile{FirstName: "Alice", LastName: "Anders"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.PasswordDigest == "" || strings.Contains(u.PasswordDigest, "secret1") {
		t.Errorf("digest must be set and not contain the raw password: %q", u.PasswordDigest)
	}
	if u.JoinAt.IsZero() || !u.JoinAt.Equal(u.LastLoginAt) {
		t.Errorf("JoinAt and LastLoginAt must both be the creation instant: %v %v", u.JoinAt, u.LastLoginAt)
	}
	stored, _ := repo.GetByUsername(context.Background(), "alice")
	if stored == nil {
		t.Fatal("user was not persisted")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store, _ := newTestStore()

	if _, err := store.Register(context.Background(), "alice", "secret1", Profile{FirstName: "Alice", LastName: "Anders"}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := store.Register(context.Background(), "alice", "other", Profile{FirstName: "Alicia", LastName: "Alvarez"})
	if err != ErrDuplicateUsername {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	store, _ := newTestStore()
	if _, err := store.Register(context.Background(), "alice", "secret1", Profile{FirstName: "Alice", LastName: "Anders"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	ok, err := store.VerifyPassword(context.Background(), "alice", "secret1")
	if err != nil || !ok {
		t.Fatalf("VerifyPassword(correct) = %v, %v", ok, err)
	}
	ok, err = store.VerifyPassword(context.Background(), "alice", "wrong")
	if err != nil {
		t.Fatalf("mismatch must not be an error: %v", err)
	}
	if ok {
		t.Error("VerifyPassword accepted a wrong password")
	}
}

func TestVerifyPasswordUnknownUser(t *testing.T) {
	store, _ := newTestStore()
	_, err := store.VerifyPassword(context.Background(), "ghost", "whatever")
	if err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTouchLogin(t *testing.T) {
	store, repo := newTestStore()
	if _, err := store.Register(context.Background(), "alice", "secret1", Profile{FirstName: "Alice", LastName: "Anders"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	before, _ := repo.GetByUsername(context.Background(), "alice")
	beforeLogin := before.LastLoginAt

	store.now = func() time.Time { return beforeLogin.Add(time.Hour) }
	if err := store.TouchLogin(context.Background(), "alice"); err != nil {
		t.Fatalf("TouchLogin: %v", err)
	}
	after, _ := repo.GetByUsername(context.Background(), "alice")
	if !after.LastLoginAt.After(beforeLogin) {
		t.Errorf("LastLoginAt not advanced: %v -> %v", beforeLogin, after.LastLoginAt)
	}

	if err := store.TouchLogin(context.Background(), "ghost"); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
