package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dukerupert/megapdv/internal/auth"
	"github.com/dukerupert/megapdv/internal/domain"
)

const tokenErrorContextKey contextKey = "token_error"

// UserLoader resolves the user named by a token's subject.
type UserLoader interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// Authenticate reads a bearer token and, when it is valid and its user still
// exists, adds the user to the request context. It never rejects a request;
// RequireAuth and RequirePermission do that.
//
// The user is reloaded on every request so role changes and deletions take
// effect before the token expires.
func Authenticate(tokens *auth.TokenIssuer, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				ctx := context.WithValue(r.Context(), tokenErrorContextKey, err)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			user, err := users.GetUser(r.Context(), claims.UserID)
			if err != nil {
				if !errors.Is(err, domain.ErrUserNotFound) {
					GetLogger(r.Context()).Error("failed to load token user", "user_id", claims.UserID, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without an authenticated user with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if domain.UserFromContext(r.Context()) == nil {
			respondUnauthorized(w, r, unauthenticatedMessage(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission rejects unauthenticated requests with 401 and users whose
// role lacks action with 403.
func RequirePermission(action auth.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := domain.UserFromContext(r.Context())
			if user == nil {
				respondUnauthorized(w, r, unauthenticatedMessage(r.Context()))
				return
			}
			if !auth.Can(user.Role, action) {
				respondForbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthenticatedMessage(ctx context.Context) string {
	if err, ok := ctx.Value(tokenErrorContextKey).(error); ok && errors.Is(err, auth.ErrTokenExpired) {
		return "Session expired, please sign in again"
	}
	return "Authentication required"
}
