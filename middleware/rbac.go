package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"hrm-access/models"
	"hrm-access/utils"
)

// RequireRole checks that the caller holds at least one of the allowed
// roles. Must run after AuthMiddleware.
func RequireRole(allowed ...models.Role) mux.MiddlewareFunc {
	errorHandler := utils.NewErrorHandler()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				errorHandler.HandleUnauthorized(w, "Authentication required")
				return
			}

			if !rolesIntersect(identity.Roles, allowed) {
				errorHandler.HandleForbidden(w, "Insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
