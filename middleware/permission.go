package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"hrm-access/models"
	"hrm-access/utils"
)

// RequirePermission checks that the caller holds every required permission.
// Must run after AuthMiddleware.
func RequirePermission(required ...models.PermissionKey) mux.MiddlewareFunc {
	errorHandler := utils.NewErrorHandler()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				errorHandler.HandleUnauthorized(w, "Authentication required")
				return
			}

			if !models.HasPermission(identity.Permissions, required...) {
				errorHandler.HandleForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
