// Package auth provides bearer-token authentication for the cache gateway.
//
// The middleware validates HS256 JWTs from the Authorization header and
// attaches the token subject to the request context, where the cache
// layer picks it up for per-user key derivation.
package auth

import (
	"context"
	"net/http"
)

type contextKey int

const userIDKey contextKey = iota

// WithUserID returns a new context with the given user id attached.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext retrieves the authenticated user id from the context.
// Returns empty string for anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// UserID extracts the authenticated user id from a request.
// It has the signature the cache middleware expects.
func UserID(r *http.Request) string {
	return UserIDFromContext(r.Context())
}

// IsAuthenticated reports whether the request carries an authenticated
// user. It has the signature of a cache condition.
func IsAuthenticated(r *http.Request) bool {
	return UserIDFromContext(r.Context()) != ""
}
