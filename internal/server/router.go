// Package server wires the HTTP routes to their handlers.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"courier/backend/internal/server/handler"
	"courier/backend/internal/server/middleware"
	"courier/backend/internal/telemetry"
)

// NewRouter sets up and returns the HTTP handler for the service. emitter may
// be nil to disable per-request events.
func NewRouter(
	auth *handler.AuthHandler,
	users *handler.UserHandler,
	messages *handler.MessageHandler,
	health *handler.HealthHandler,
	emitter telemetry.EventEmitter,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(handler.DefaultTimeout))
	r.Use(middleware.ClientIP)
	r.Use(middleware.BearerToken)
	r.Use(middleware.RequestEvents(emitter))

	r.Get("/health", health.Check)

	r.Post("/login", auth.Login)
	r.Post("/register", auth.Register)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", users.List)
		r.Get("/{username}", users.Get)
		r.Get("/{username}/to", users.MessagesTo)
		r.Get("/{username}/from", users.MessagesFrom)
	})

	r.Route("/messages", func(r chi.Router) {
		r.Post("/", messages.Create)
		r.Get("/{id}", messages.Get)
		r.Post("/{id}/read", messages.MarkRead)
	})

	return otelhttp.NewHandler(r, "courier.http")
}
