// Package api implements the JSON handlers of the PDV back office.
package api

import (
	"net/http"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/dukerupert/megapdv/internal/handler"
)

// currentUser returns the authenticated user, writing a 401 when there is
// none. Routes are mounted behind middleware.RequireAuth so this only fails
// on wiring mistakes.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	u := domain.UserFromContext(r.Context())
	if u == nil {
		handler.UnauthorizedResponse(w, r)
		return nil, false
	}
	return u, true
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	handler.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
