package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	messagedomain "courier/backend/internal/message/domain"
	messagesvc "courier/backend/internal/message/service"
	"courier/backend/internal/platform/authz"
	"courier/backend/internal/server/middleware"
	usersvc "courier/backend/internal/user/service"
)

// UserHandler serves public profile lookups and per-user message listings.
type UserHandler struct {
	directory *usersvc.Directory
	registry  *messagesvc.Registry
	guard     *authz.Guard
}

func NewUserHandler(directory *usersvc.Directory, registry *messagesvc.Registry, guard *authz.Guard) *UserHandler {
	return &UserHandler{directory: directory, registry: registry, guard: guard}
}

// List handles GET /users. Public: returns only non-sensitive fields.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.directory.All(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, profiles)
}

// Get handles GET /users/{username}. Public directory lookup.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.directory.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, profile)
}

// MessagesTo handles GET /users/{username}/to: messages received by the
// user. Only the user may list their own inbox.
func (h *UserHandler) MessagesTo(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	token := middleware.TokenFromContext(r.Context())
	if _, err := h.guard.RequireResourceOwner(r.Context(), token, []string{username}); err != nil {
		respondWithError(w, err)
		return
	}
	messages, err := h.registry.ListTo(r.Context(), username)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nonNil(messages))
}

// MessagesFrom handles GET /users/{username}/from: messages sent by the
// user. Only the user may list their own outbox.
func (h *UserHandler) MessagesFrom(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	token := middleware.TokenFromContext(r.Context())
	if _, err := h.guard.RequireResourceOwner(r.Context(), token, []string{username}); err != nil {
		respondWithError(w, err)
		return
	}
	messages, err := h.registry.ListFrom(r.Context(), username)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nonNil(messages))
}

// nonNil keeps empty listings serializing as [] rather than null.
func nonNil(messages []messagedomain.Message) []messagedomain.Message {
	if messages == nil {
		return []messagedomain.Message{}
	}
	return messages
}
