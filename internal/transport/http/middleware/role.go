package middleware

import (
	"net/http"

	"github.com/goodspace/backend/internal/domain"
)

// RequireRole returns middleware that allows access only to subjects whose
// token carries one of the given roles.
func RequireRole(allowed ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "INVALID_TOKEN")
				return
			}
			for _, role := range allowed {
				if claims.Roles.Has(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSONError(w, http.StatusForbidden, "FORBIDDEN")
		})
	}
}
