// Package handler exposes the messaging service over HTTP. Handlers decode
// typed request structs, call the services, and map tagged errors to statuses.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"courier/backend/internal/credential"
	"courier/backend/internal/db"
	identitysvc "courier/backend/internal/identity/service"
	messagesvc "courier/backend/internal/message/service"
	"courier/backend/internal/platform/authz"
	"courier/backend/internal/security"
	usersvc "courier/backend/internal/user/service"
)

// DefaultTimeout bounds request handling; the router applies it globally.
const DefaultTimeout = 30 * time.Second

// ErrInvalidRequest marks malformed or incomplete request bodies.
var ErrInvalidRequest = errors.New("invalid request")

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("handler: marshal response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps service errors to HTTP statuses. Every tagged error
// gets a distinct, stable status; anything unrecognized is a 500.
func respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, identitysvc.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		message = "invalid credentials"
	case errors.Is(err, authz.ErrUnauthenticated), errors.Is(err, security.ErrInvalidToken):
		statusCode = http.StatusUnauthorized
		message = "authentication required"
	case errors.Is(err, authz.ErrForbidden), errors.Is(err, messagesvc.ErrForbidden):
		statusCode = http.StatusForbidden
		message = "forbidden"
	case errors.Is(err, usersvc.ErrNotFound), errors.Is(err, messagesvc.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "resource not found"
	case errors.Is(err, messagesvc.ErrUnknownUser):
		statusCode = http.StatusBadRequest
		message = "unknown user"
	case errors.Is(err, messagesvc.ErrEmptyBody):
		statusCode = http.StatusBadRequest
		message = "message body is empty"
	case errors.Is(err, identitysvc.ErrInvalidInput), errors.Is(err, ErrInvalidRequest):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, credential.ErrDuplicateUsername):
		statusCode = http.StatusConflict
		message = "username already taken"
	case errors.Is(err, db.ErrUnavailable):
		statusCode = http.StatusServiceUnavailable
		message = "service unavailable"
	default:
		log.Printf("handler: unhandled service error: %v", err)
	}

	respondWithJSON(w, statusCode, map[string]string{"error": message})
}
