// Package authz is the decision gate called before every protected operation.
// It composes token verification with a resource-ownership policy evaluated
// by the in-process OPA Rego engine.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
)

var (
	// ErrUnauthenticated is returned when the token is missing, malformed,
	// or names a user that no longer exists.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when the authenticated user does not own the
	// target resource.
	ErrForbidden = errors.New("forbidden")
)

const ownershipPolicy = `package courier.authz

default allow := false

allow if {
	some owner in input.owners
	owner == input.username
}
`

// TokenVerifier resolves a session token to a username.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserDirectory reports whether a username still names a registered user.
type UserDirectory interface {
	Exists(ctx context.Context, username string) (bool, error)
}

// Guard decides whether a request may proceed. It raises a failure or returns
// the resolved username; it has no other side effects.
type Guard struct {
	tokens TokenVerifier
	users  UserDirectory
	query  rego.PreparedEvalQuery
}

// NewGuard compiles the ownership policy once and returns a Guard over it.
func NewGuard(ctx context.Context, tokens TokenVerifier, users UserDirectory) (*Guard, error) {
	query, err := rego.New(
		rego.Query("data.courier.authz.allow"),
		rego.Module("authz.rego", ownershipPolicy),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare ownership policy: %w", err)
	}
	return &Guard{tokens: tokens, users: users, query: query}, nil
}

// RequireAuthenticated verifies the token and returns the embedded username.
// A token is valid only while its username still names an existing user, so
// tokens survive no longer than their account.
func (g *Guard) RequireAuthenticated(ctx context.Context, token string) (string, error) {
	username, err := g.tokens.Verify(token)
	if err != nil {
		return "", ErrUnauthenticated
	}
	ok, err := g.users.Exists(ctx, username)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrUnauthenticated
	}
	return username, nil
}

// RequireResourceOwner verifies the token and then checks that the resolved
// username is one of resourceOwners. For a message that set is the sender and
// recipient; for a profile-scoped endpoint it is the profile's username.
func (g *Guard) RequireResourceOwner(ctx context.Context, token string, resourceOwners []string) (string, error) {
	username, err := g.RequireAuthenticated(ctx, token)
	if err != nil {
		return "", err
	}
	input := map[string]interface{}{
		"username": username,
		"owners":   resourceOwners,
	}
	rs, err := g.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("eval ownership policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return "", fmt.Errorf("ownership policy returned no result")
	}
	allowed, ok := rs[0].Expressions[0].Value.(bool)
	if !ok || !allowed {
		return "", ErrForbidden
	}
	return username, nil
}
