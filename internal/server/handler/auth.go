package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"courier/backend/internal/credential"
	identitysvc "courier/backend/internal/identity/service"
)

// AuthHandler handles login and registration.
type AuthHandler struct {
	auth *identitysvc.AuthService
}

func NewAuthHandler(auth *identitysvc.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// LoginRequest is the request body for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the request body for POST /register.
type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// TokenResponse carries a freshly issued session token.
type TokenResponse struct {
	Token string `json:"token"`
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: malformed body", ErrInvalidRequest))
		return
	}
	if req.Username == "" || req.Password == "" {
		respondWithError(w, fmt.Errorf("%w: username and password are required", ErrInvalidRequest))
		return
	}
	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: malformed body", ErrInvalidRequest))
		return
	}
	token, err := h.auth.Register(r.Context(), req.Username, req.Password, credential.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, TokenResponse{Token: token})
}
