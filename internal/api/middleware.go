// Package api implements the rnotes REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey struct{}

// Authenticator turns a bearer token into a user id.
type Authenticator interface {
	Authenticate(token string) (int32, error)
}

// AuthMiddleware rejects requests without a valid "Authorization: Bearer <jwt>"
// header and stores the token subject in the request context.
func AuthMiddleware(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeStatusError(w, http.StatusUnauthorized)
				return
			}
			userID, err := a.Authenticate(token)
			if err != nil {
				writeStatusError(w, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int32) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID returns the user authenticated by AuthMiddleware.
func UserID(r *http.Request) (int32, bool) {
	id, ok := r.Context().Value(ctxKey{}).(int32)
	return id, ok
}
