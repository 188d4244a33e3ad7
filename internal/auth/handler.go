package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ayush/movie-reviews/internal/apperr"
	"github.com/ayush/movie-reviews/internal/models"
)

// TokenScheme prefixes issued tokens; clients send the value back verbatim
// in the Authorization header.
const TokenScheme = "JWT"

// Handler holds auth-related HTTP handlers.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Signup handles POST /signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, r, h.logger, apperr.Validation("invalid request body"))
		return
	}
	if _, err := h.svc.Signup(r.Context(), req); err != nil {
		apperr.Write(w, r, h.logger, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Successfully created new user.",
	})
}

// Signin handles POST /signin.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, r, h.logger, apperr.Validation("invalid request body"))
		return
	}
	token, err := h.svc.Signin(r.Context(), req)
	if err != nil {
		apperr.Write(w, r, h.logger, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   TokenScheme + " " + token,
	})
}

// Signout handles POST /signout. It must run behind the auth middleware.
func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Signout(r.Context(), IdentityFromContext(r.Context())); err != nil {
		apperr.Write(w, r, h.logger, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
