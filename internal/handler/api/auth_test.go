package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/megapdv/internal/auth"
	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/dukerupert/megapdv/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Login(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	users := &mockUserService{
		authenticateFunc: func(ctx context.Context, email, password string) (*domain.User, error) {
			if email == cashierUser.Email && password == "caixa123" {
				u := cashierUser
				return &u, nil
			}
			return nil, service.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(users, tokens, nil)

	t.Run("valid credentials", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Login(rec, newRequest(http.MethodPost, "/api/auth/login", `{"email":"caixa@megapdv.local","password":"caixa123"}`, nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp loginResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, cashierUser.ID, resp.User.ID)
		assert.Equal(t, "/pdv", resp.Home)
		assert.Len(t, resp.Menu, 2)

		claims, err := tokens.Parse(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, cashierUser.ID, claims.UserID)
		assert.Equal(t, domain.RoleCashier, claims.Role)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Login(rec, newRequest(http.MethodPost, "/api/auth/login", `{"email":"caixa@megapdv.local","password":"errada"}`, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Login(rec, newRequest(http.MethodPost, "/api/auth/login", `{"email":`, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&mockUserService{}, auth.NewTokenIssuer("test-secret", time.Hour), nil)

	t.Run("authenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Me(rec, newRequest(http.MethodGet, "/api/auth/me", "", &adminUser))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp meResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Administrador", resp.RoleLabel)
		assert.Equal(t, "/dashboard", resp.Home)
		assert.Len(t, resp.Menu, 6)
	})

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Me(rec, newRequest(http.MethodGet, "/api/auth/me", "", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandler_Menu(t *testing.T) {
	h := NewAuthHandler(&mockUserService{}, auth.NewTokenIssuer("test-secret", time.Hour), nil)

	rec := httptest.NewRecorder()
	h.Menu(rec, newRequest(http.MethodGet, "/api/menu", "", &cashierUser))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []auth.MenuItem `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	paths := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		paths = append(paths, item.Path)
	}
	assert.Equal(t, []string{"/pdv", "/sales"}, paths)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
