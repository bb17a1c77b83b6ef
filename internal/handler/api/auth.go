package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/megapdv/internal/auth"
	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/dukerupert/megapdv/internal/handler"
	"github.com/dukerupert/megapdv/internal/middleware"
	"github.com/dukerupert/megapdv/internal/service"
)

// AuthHandler handles login and the current-user endpoints
type AuthHandler struct {
	users  service.UserService
	tokens *auth.TokenIssuer
	logger *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users service.UserService, tokens *auth.TokenIssuer, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      domain.User     `json:"user"`
	Home      string          `json:"home"`
	Menu      []auth.MenuItem `json:"menu"`
}

type meResponse struct {
	User      domain.User     `json:"user"`
	RoleLabel string          `json:"role_label"`
	Home      string          `json:"home"`
	Menu      []auth.MenuItem `json:"menu"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("login failed", "email", req.Email, "ip", middleware.GetClientIP(r))
		handler.ErrorResponse(w, r, err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(*user)
	if err != nil {
		handler.InternalErrorResponse(w, r, err)
		return
	}

	h.logger.Info("user signed in", "user_id", user.ID, "role", user.Role)

	handler.WriteJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *user,
		Home:      auth.HomePath(user.Role),
		Menu:      auth.Menu(user.Role),
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	handler.WriteJSON(w, http.StatusOK, meResponse{
		User:      *user,
		RoleLabel: user.Role.Label(),
		Home:      auth.HomePath(user.Role),
		Menu:      auth.Menu(user.Role),
	})
}

// Menu handles GET /api/menu
func (h *AuthHandler) Menu(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{
		"items": auth.Menu(user.Role),
	})
}
