package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token is malformed, carries a bad
// signature, or was signed with an unsupported algorithm.
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims holds the JWT claims for a session token. The username is the
// subject; no custom claims are needed.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// TokenProvider issues and verifies HS256 session tokens signed with the
// process-wide secret. Tokens are stateless capabilities: issuance and
// verification are the only operations, there is no revocation.
type TokenProvider struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenProvider returns a TokenProvider signing with secret. ttl sets the
// exp claim; 0 issues tokens without expiry (the current design), and a
// non-zero value enables expiry without any caller-visible change.
func NewTokenProvider(secret []byte, issuer string, ttl time.Duration) *TokenProvider {
	return &TokenProvider{secret: secret, issuer: issuer, ttl: ttl}
}

// Issue mints a signed token binding username. The issuance instant is
// recorded in the iat claim.
func (p *TokenProvider) Issue(username string) (string, error) {
	now := time.Now().UTC()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  username,
			Issuer:   p.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if p.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(p.ttl))
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(p.secret)
}

// Verify parses and validates tokenString (signature, structure, iss, and exp
// when present) and returns the bound username. Any failure, including a
// non-HMAC signing method, yields ErrInvalidToken.
func (p *TokenProvider) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if p.issuer != "" && claims.Issuer != p.issuer {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
