package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	messagesvc "courier/backend/internal/message/service"
	"courier/backend/internal/platform/authz"
	"courier/backend/internal/server/middleware"
)

// MessageHandler serves message reads, creation, and read-marking.
type MessageHandler struct {
	registry *messagesvc.Registry
	guard    *authz.Guard
}

func NewMessageHandler(registry *messagesvc.Registry, guard *authz.Guard) *MessageHandler {
	return &MessageHandler{registry: registry, guard: guard}
}

// CreateMessageRequest is the request body for POST /messages.
type CreateMessageRequest struct {
	FromUsername string `json:"from_username"`
	ToUsername   string `json:"to_username"`
	Body         string `json:"body"`
}

// Get handles GET /messages/{id}. Visible only to the message's sender and
// recipient.
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	if _, err := h.guard.RequireAuthenticated(r.Context(), token); err != nil {
		respondWithError(w, err)
		return
	}
	id, err := messageID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	m, err := h.registry.Get(r.Context(), id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if _, err := h.guard.RequireResourceOwner(r.Context(), token, m.Owners()); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, m)
}

// Create handles POST /messages. The authenticated principal must be the
// sender; an empty from_username defaults to the principal.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	principal, err := h.guard.RequireAuthenticated(r.Context(), token)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: malformed body", ErrInvalidRequest))
		return
	}
	if req.ToUsername == "" {
		respondWithError(w, fmt.Errorf("%w: to_username is required", ErrInvalidRequest))
		return
	}
	if req.FromUsername == "" {
		req.FromUsername = principal
	}
	if req.FromUsername != principal {
		respondWithError(w, messagesvc.ErrForbidden)
		return
	}
	m, err := h.registry.Create(r.Context(), req.FromUsername, req.ToUsername, req.Body)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, m)
}

// MarkRead handles POST /messages/{id}/read. Recipient-only: the sender may
// view the message but never mark it read.
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	principal, err := h.guard.RequireAuthenticated(r.Context(), token)
	if err != nil {
		respondWithError(w, err)
		return
	}
	id, err := messageID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	m, err := h.registry.Get(r.Context(), id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if _, err := h.guard.RequireResourceOwner(r.Context(), token, []string{m.ToUsername}); err != nil {
		respondWithError(w, err)
		return
	}
	m, err = h.registry.MarkRead(r.Context(), id, principal)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, m)
}

func messageID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, messagesvc.ErrNotFound
	}
	return id, nil
}
