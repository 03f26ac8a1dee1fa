package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"hrm-access/models"
	"hrm-access/session"
	"hrm-access/token"
	"hrm-access/utils"
)

// contextKey is a private type so middleware context values cannot collide
// with other packages.
type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the authenticated caller attached to the request context by
// AuthMiddleware.
type Identity struct {
	UserID      string
	Name        string
	Email       string
	Roles       []models.Role
	Permissions []models.PermissionKey
}

// IdentityFromContext returns the identity stored by AuthMiddleware
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(Identity)
	return identity, ok
}

// AuthMiddleware verifies the bearer token on API requests and stores the
// resolved identity in the request context
func AuthMiddleware(codec *token.Codec) mux.MiddlewareFunc {
	errorHandler := utils.NewErrorHandler()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := session.CredentialFromRequest(r)
			if raw == "" {
				errorHandler.HandleUnauthorized(w, "Authorization is required")
				return
			}

			result := codec.Verify(raw)
			if !result.Valid {
				errorHandler.HandleUnauthorized(w, "Invalid token")
				return
			}

			roles := models.NormalizeRoles(result.Payload.Roles)
			identity := Identity{
				UserID:      result.Payload.Subject,
				Name:        result.Payload.Name,
				Email:       result.Payload.Email,
				Roles:       roles,
				Permissions: models.PermissionsForRoles(roles),
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
