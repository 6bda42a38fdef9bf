package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"cerdas/internal/service"
)

// AuthHandler serves registration, sign-in and account endpoints
type AuthHandler struct {
	authService *service.AuthService
	log         *zap.SugaredLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, h.log, err)
		return
	}

	result, err := h.authService.Register(input)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, h.log, err)
		return
	}

	result, err := h.authService.Login(input.Email, input.Password)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Logout handles POST /api/auth/logout. Deleting the session revokes the
// token everywhere it was copied.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if identity == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not signed in"})
		return
	}

	if err := h.authService.Logout(identity.SessionID); err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// ChangePassword handles PUT /api/auth/password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if identity == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not signed in"})
		return
	}

	var input service.ChangePasswordInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := h.authService.ChangePassword(identity.Profile.ID, input); err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if identity == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not signed in"})
		return
	}

	result, err := h.authService.Me(identity.Profile)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
