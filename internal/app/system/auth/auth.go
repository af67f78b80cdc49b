// internal/app/system/auth/auth.go
package auth

// Bearer-token authentication. A token is an opaque prefixed string
// minted at login; possession is authentication. Tokens ride in the
// Authorization header ("Bearer <token>"); the legacy ?token= query
// parameter is still accepted for older clients.

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/workifyhq/workify/internal/app/store/users"
	"github.com/workifyhq/workify/internal/app/system/timeouts"
	"github.com/workifyhq/workify/internal/domain/models"
)

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the authenticated account injected by RequireUser,
// with a found flag.
func CurrentUser(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*models.User)
	return u, ok
}

// Token extracts the bearer token from a request: the Authorization
// header wins, the token query parameter is the fallback.
func Token(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if rest, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

// RequireUser resolves the request's bearer token against the corpus and
// injects the matching account into the request context. Requests with
// no token or an unknown token get 401. Every request through this
// middleware pays one full directory scan; that is the cost of the
// scan-based index.
func RequireUser(store *users.Store, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := Token(r)
			if token == "" {
				deny(w, "missing bearer token")
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeouts.Scan())
			defer cancel()

			u, err := store.FindByToken(ctx, token)
			if err != nil {
				logger.Debug("token lookup failed", zap.Error(err))
				deny(w, "invalid token")
				return
			}
			next.ServeHTTP(w, withUser(r, u))
		})
	}
}

// RequireRole gates a subtree to accounts with one of the allowed roles.
// It must run after RequireUser.
func RequireRole(allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				deny(w, "not authenticated")
				return
			}
			for _, role := range allowed {
				if u.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden for role " + string(u.Role)})
		})
	}
}

func withUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func deny(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
