package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

// UserClaimsKey is the context key for the authenticated user's claims.
const UserClaimsKey = contextKey("userClaims")

// LoginPath is where anonymous requests to protected routes are sent.
const LoginPath = "/login"

// RequireUser creates a middleware protecting routes that need an
// authenticated session. Anonymous or invalid-token requests are redirected
// to the login page rather than rejected with a 401.
func (m *TokenManager) RequireUser() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			// Prefer the Authorization header, fall back to the cookie.
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, "Bearer ")
				if len(parts) == 2 {
					tokenStr = parts[1]
				}
			}
			if tokenStr == "" {
				if cookie, err := r.Cookie(SessionCookie); err == nil {
					tokenStr = cookie.Value
				}
			}

			if tokenStr == "" {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			claims, err := m.Validate(tokenStr)
			if err != nil {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser extracts the authenticated user's claims from the request
// context. ok is false when the request passed through no RequireUser
// middleware.
func CurrentUser(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}
