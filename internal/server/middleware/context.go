package middleware

import "context"

type contextKey string

const (
	tokenKey    contextKey = "bearer_token"
	clientIPKey contextKey = "client_ip"
)

// WithToken returns a context carrying the raw bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext returns the raw bearer token extracted from the request,
// or "" when the request carried none. Verification is the guard's job;
// public routes ignore the token entirely.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// ClientIPFromContext returns the client IP recorded by the ClientIP
// middleware, or "" when absent.
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}
