package middleware

import (
	"context"
	"net/http"
)

// userIDKey is the context key for the authenticated user ID.
type userIDKey struct{}

// UserIDHeader carries the caller identity, resolved by the edge proxy after
// credential verification. This service trusts the header; it never sees
// passwords or tokens.
const UserIDHeader = "X-User-ID"

// IdentityMiddleware extracts the caller identity from the request headers
// and stores it on the request context. Requests without identity pass
// through; handlers that require a user check with UserIDFromContext.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := r.Header.Get(UserIDHeader); userID != "" {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID))
		}
		next.ServeHTTP(w, r)
	})
}

// UserIDFromContext returns the authenticated user ID, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	return userID, ok && userID != ""
}
