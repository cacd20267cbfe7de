package middleware

import (
	"context"
	"net/http"
)

// ClientIP records the request's remote address in the context so audit
// entries written deep in the services can carry it. Mount it after chi's
// RealIP middleware so the recorded address is the real client IP.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.RemoteAddr != "" {
			r = r.WithContext(WithClientIP(r.Context(), r.RemoteAddr))
		}
		next.ServeHTTP(w, r)
	})
}

// WithClientIP returns a context carrying the client IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}
