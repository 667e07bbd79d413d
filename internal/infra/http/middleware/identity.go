package middleware

import (
	"context"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type contextKey string

const actingUserKey contextKey = "acting_user"

// UserFinder resolves ids against the user directory.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// Identity resolves the acting user from the X-User-ID header set by
// the authenticating front layer. Token validation is that layer's
// job; this middleware only attaches the directory record, for default
// assignment and display. Requests without a resolvable user still
// pass through.
func Identity(users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-User-ID")
			if userID != "" {
				if user, err := users.FindByID(r.Context(), userID); err == nil {
					ctx := context.WithValue(r.Context(), actingUserKey, user)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ActingUser returns the resolved acting user, if any.
func ActingUser(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(actingUserKey).(*entity.User)
	return user, ok
}
