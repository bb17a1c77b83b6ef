package api

import (
	"net/http"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/dukerupert/megapdv/internal/handler"
	"github.com/dukerupert/megapdv/internal/service"
)

// UserHandler handles user management routes
type UserHandler struct {
	users service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type passwordRequest struct {
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

type roleCount struct {
	Role  domain.Role `json:"role"`
	Label string      `json:"label"`
	Count int         `json:"count"`
}

// List handles GET /api/users?search=
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"count": len(users),
	})
}

// Stats handles GET /api/users/stats
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.users.RoleCounts(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	total := 0
	roles := make([]roleCount, 0, len(domain.Roles()))
	for _, role := range domain.Roles() {
		total += counts[role]
		roles = append(roles, roleCount{Role: role, Label: role.Label(), Count: counts[role]})
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{
		"total": total,
		"roles": roles,
	})
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, u)
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateUserInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	u, err := h.users.CreateUser(r.Context(), input)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, u)
}

// Update handles PUT /api/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateUserInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	u, err := h.users.UpdateUser(r.Context(), r.PathValue("id"), input)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, u)
}

// Delete handles DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.users.DeleteUser(r.Context(), actor.ID, r.PathValue("id")); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword handles POST /api/users/{id}/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.users.ChangePassword(r.Context(), r.PathValue("id"), req.Password, req.Confirmation); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
