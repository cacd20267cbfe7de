// Package service implements password login, registration, and session token
// verification over the credential store.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"courier/backend/internal/audit"
	"courier/backend/internal/credential"
	"courier/backend/internal/security"
)

// Sentinel errors for the auth service; the handler maps them to HTTP statuses.
var (
	// ErrInvalidCredentials covers both unknown usernames and wrong passwords,
	// so a caller cannot enumerate which usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,64}$`)

// AuthService issues and verifies session tokens backed by stored credentials.
type AuthService struct {
	creds   *credential.Store
	tokens  *security.TokenProvider
	auditor audit.AuditLogger
}

// NewAuthService returns an AuthService with the given dependencies.
// auditor may be nil; then no audit events are recorded.
func NewAuthService(creds *credential.Store, tokens *security.TokenProvider, auditor audit.AuditLogger) *AuthService {
	return &AuthService{creds: creds, tokens: tokens, auditor: auditor}
}

// Login verifies the username/password pair and returns a signed session
// token. Unknown usernames and wrong passwords fail identically with
// ErrInvalidCredentials. A successful login updates the user's last login time.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	ok, err := s.creds.VerifyPassword(ctx, username, password)
	if err != nil {
		if errors.Is(err, credential.ErrUserNotFound) {
			s.logEvent(ctx, "", "login_failure", "auth", "username="+username)
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !ok {
		s.logEvent(ctx, "", "login_failure", "auth", "username="+username)
		return "", ErrInvalidCredentials
	}
	if err := s.creds.TouchLogin(ctx, username); err != nil {
		if errors.Is(err, credential.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	token, err := s.tokens.Issue(username)
	if err != nil {
		return "", err
	}
	s.logEvent(ctx, username, "login_success", "auth", "")
	return token, nil
}

// Register creates the user and returns a session token of the same shape as
// Login's. Returns credential.ErrDuplicateUsername when the username is taken.
func (s *AuthService) Register(ctx context.Context, username, password string, profile credential.Profile) (string, error) {
	username = strings.TrimSpace(username)
	if !usernameRe.MatchString(username) {
		return "", fmt.Errorf("%w: username must be 1-64 characters of letters, digits, _ . -", ErrInvalidInput)
	}
	if len(password) < 6 {
		return "", fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}
	if strings.TrimSpace(profile.FirstName) == "" || strings.TrimSpace(profile.LastName) == "" {
		return "", fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}
	if _, err := s.creds.Register(ctx, username, password, profile); err != nil {
		return "", err
	}
	token, err := s.tokens.Issue(username)
	if err != nil {
		return "", err
	}
	s.logEvent(ctx, username, "register", "auth", "")
	return token, nil
}

// Verify checks the token's signature and structure and returns the embedded
// username. Fails with security.ErrInvalidToken on any mismatch.
func (s *AuthService) Verify(tokenString string) (string, error) {
	return s.tokens.Verify(tokenString)
}

func (s *AuthService) logEvent(ctx context.Context, username, action, resource, metadata string) {
	if s.auditor == nil {
		return
	}
	s.auditor.LogEvent(ctx, username, action, resource, metadata)
}
