package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/goodspace/backend/internal/domain"
	"github.com/goodspace/backend/internal/infrastructure/token"
)

type contextKey string

const ClaimsKey contextKey = "claims"

// Auth returns middleware that validates the bearer token and injects its
// claims into the request context. Only ACCESS-class tokens are accepted:
// presenting a refresh token to an authenticated endpoint is a 401.
func Auth(provider *token.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "INVALID_TOKEN")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := provider.Verify(tokenStr)
			if err != nil {
				code := "INVALID_TOKEN"
				if errorsIsExpired(err) {
					code = "EXPIRED_TOKEN"
				}
				writeJSONError(w, http.StatusUnauthorized, code)
				return
			}
			if claims.Class != domain.TokenAccess {
				writeJSONError(w, http.StatusUnauthorized, "INVALID_TOKEN")
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts token claims from the request context.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*token.Claims)
	return c, ok
}
