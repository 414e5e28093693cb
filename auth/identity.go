// Package auth carries the caller identity asserted by clients.
// The identity is a plain name taken from the User header and trusted as given:
// it is a capability check against a string, not a proof of who the caller is.
package auth

import (
	"context"
	"net/http"
)

// UserHeader is the header clients use to say who they are.
const UserHeader = "User"

type contextKey string

const identityKey contextKey = "identity"

// IdentityMiddleware copies the User header into the request context
// so handlers never read the identity from the payload.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithIdentity(r.Context(), r.Header.Get(UserHeader))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the asserted identity, empty when the caller gave none.
func IdentityFromContext(ctx context.Context) string {
	identity, _ := ctx.Value(identityKey).(string)
	return identity
}
