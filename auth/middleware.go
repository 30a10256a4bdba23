// This file defines the auth gate: middleware that classifies each request as
// unauthenticated, carrying an invalid token, or authenticated — and only in
// the last case lets the request through with its identity attached.
package auth

import (
	"net/http"

	"github.com/vyshnavipusrala/backend/apperror"
)

// CookieName is the cookie that carries the session token.
const CookieName = "token"

// RequireAuth returns middleware that verifies the session token cookie and
// adds the claims to the request context. A missing cookie and a failed
// verification are rejected with the same generic 401 so callers cannot
// tell the two apart.
func RequireAuth(codec *TokenCodec) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				WriteError(w, r, apperror.NewAuthError("invalid token", nil))
				return
			}

			claims, err := codec.Verify(cookie.Value)
			if err != nil {
				WriteError(w, r, apperror.NewAuthError("invalid token", nil))
				return
			}

			ctx := NewContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
