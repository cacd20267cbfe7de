package middleware

import (
	"fmt"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"courier/backend/internal/telemetry"
)

// RequestEvents emits one http_request event per completed request with
// method, path, status, and duration. Emission is asynchronous and
// best-effort; a nil emitter disables it.
func RequestEvents(emitter telemetry.EventEmitter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if emitter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			metadata := fmt.Sprintf("method=%s path=%s status=%d duration_ms=%d",
				r.Method, r.URL.Path, ww.Status(), time.Since(start).Milliseconds())
			telemetry.EmitAsync(emitter, r.Context(), telemetry.NewEvent("", "http_request", "server", metadata))
		})
	}
}
