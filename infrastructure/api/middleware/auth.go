package middleware

// Admin authentication for mutating endpoints.
//
// A single shared token is carried in the X-Admin-Token header. When no
// token is configured the protected endpoints are closed entirely rather
// than open: an operator who forgot to set the token should not get an
// unauthenticated write path.

import (
	"crypto/subtle"
	"net/http"
)

// AdminTokenHeader is the header carrying the admin token.
const AdminTokenHeader = "X-Admin-Token"

// AuthConfig holds the admin authentication settings.
type AuthConfig struct {
	token string
}

// NewAuthConfig creates an AuthConfig with the given shared token.
// An empty token disables all protected endpoints.
func NewAuthConfig(token string) AuthConfig {
	return AuthConfig{token: token}
}

// Enabled reports whether a token is configured.
func (c AuthConfig) Enabled() bool {
	return c.token != ""
}

// Authorize checks the given header value against the configured token.
func (c AuthConfig) Authorize(token string) bool {
	if !c.Enabled() {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(c.token)) == 1
}

// AdminAuth returns middleware that rejects requests lacking a valid admin
// token with 401.
func AdminAuth(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Authorize(r.Header.Get(AdminTokenHeader)) {
				WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Detail: "Unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
