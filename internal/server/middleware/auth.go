package middleware

import (
	"net/http"
	"strings"
)

// BearerToken extracts the Authorization bearer token into the request
// context. It never rejects a request: routes that require authentication
// fail later at the guard, and public routes proceed regardless.
func BearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			r = r.WithContext(WithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}
