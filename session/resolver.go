// Package session resolves inbound requests into authenticated or
// unauthenticated descriptors for the edge gate and the API middleware.
package session

import (
	"net/http"
	"strings"

	"hrm-access/models"
	"hrm-access/token"
)

// Cookie names shared between the client session store (writer) and the
// edge gate (reader).
const (
	CookieAccessToken = "access_token"
	CookieRoles       = "user_roles"
	CookiePermissions = "user_permissions"
)

// Descriptor describes the requester's identity for a single request
type Descriptor struct {
	Authenticated bool
	User          models.SessionUser
	Token         string
}

// Resolver turns requests into descriptors. It holds no per-request state
// and is safe to call concurrently.
type Resolver struct {
	codec *token.Codec
}

// NewResolver creates a resolver backed by the given token codec
func NewResolver(codec *token.Codec) *Resolver {
	return &Resolver{codec: codec}
}

// Resolve extracts the bearer credential from the request and verifies it.
// A missing, expired or malformed token all resolve to unauthenticated; the
// caller only needs to know "login required", not why.
func (r *Resolver) Resolve(req *http.Request) Descriptor {
	raw := CredentialFromRequest(req)
	if raw == "" {
		return Descriptor{}
	}

	result := r.codec.Verify(raw)
	if !result.Valid {
		return Descriptor{}
	}

	// Roles come off the wire as raw strings; unknown ones are discarded and
	// the permission set is recomputed from whatever survives.
	roles := models.NormalizeRoles(result.Payload.Roles)

	return Descriptor{
		Authenticated: true,
		Token:         raw,
		User: models.SessionUser{
			ID:          result.Payload.Subject,
			Name:        result.Payload.Name,
			Email:       result.Payload.Email,
			Roles:       roles,
			Permissions: models.PermissionsForRoles(roles),
		},
	}
}

// CredentialFromRequest extracts the bearer token, preferring the
// Authorization header over the access-token cookie
func CredentialFromRequest(req *http.Request) string {
	if auth := req.Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	if cookie, err := req.Cookie(CookieAccessToken); err == nil {
		return cookie.Value
	}

	return ""
}
