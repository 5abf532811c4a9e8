package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/conflab/roomsvc/internal/config"
)

// AuthMiddleware guards destructive endpoints with a static bearer token list
type AuthMiddleware struct {
	tokens []string
}

// NewAuthMiddleware creates the middleware from environment configuration
func NewAuthMiddleware() *AuthMiddleware {
	return NewAuthMiddlewareWithConfig(config.GetAdminConfig())
}

// NewAuthMiddlewareWithConfig creates the middleware with explicit credentials;
// primarily used by tests
func NewAuthMiddlewareWithConfig(cfg config.AdminConfig) *AuthMiddleware {
	return &AuthMiddleware{tokens: cfg.APITokens}
}

// Authorize validates the request's bearer token against the configured list
func (auth *AuthMiddleware) Authorize(r *http.Request) (int, bool) {
	if len(auth.tokens) == 0 {
		log.Printf("Warning: ADMIN_API_TOKENS not configured - admin access disabled")
		return http.StatusServiceUnavailable, false
	}

	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return http.StatusUnauthorized, false
	}

	token := strings.TrimPrefix(header, "Bearer ")
	for _, t := range auth.tokens {
		if t == token {
			return http.StatusOK, true
		}
	}

	return http.StatusForbidden, false
}

// RequireAuth is a middleware that validates bearer tokens before calling next
func (auth *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if code, ok := auth.Authorize(r); !ok {
			switch code {
			case http.StatusServiceUnavailable:
				http.Error(w, "Authentication not configured", code)
			case http.StatusUnauthorized:
				http.Error(w, "Bearer token required", code)
			default:
				http.Error(w, "Access denied", code)
			}
			return
		}
		next(w, r)
	}
}
