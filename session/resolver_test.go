package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrm-access/models"
	"hrm-access/token"
)

const testSecret = "test-secret-at-least-32-bytes-long!!"

func newTestResolver(t *testing.T) (*Resolver, *token.Codec) {
	t.Helper()
	codec := token.NewCodec(testSecret, time.Hour)
	return NewResolver(codec), codec
}

func TestCredentialFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*http.Request)
		expected string
	}{
		{
			name: "bearer header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer header-token")
			},
			expected: "header-token",
		},
		{
			name: "lowercase bearer",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "bearer header-token")
			},
			expected: "header-token",
		},
		{
			name: "access token cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: CookieAccessToken, Value: "cookie-token"})
			},
			expected: "cookie-token",
		},
		{
			name: "header wins over cookie",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer header-token")
				r.AddCookie(&http.Cookie{Name: CookieAccessToken, Value: "cookie-token"})
			},
			expected: "header-token",
		},
		{
			name: "non-bearer scheme ignored",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
			},
			expected: "",
		},
		{
			name:     "nothing provided",
			setup:    func(r *http.Request) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dashboard/admin", nil)
			tt.setup(req)
			assert.Equal(t, tt.expected, CredentialFromRequest(req))
		})
	}
}

func TestResolve(t *testing.T) {
	resolver, codec := newTestResolver(t)

	t.Run("valid token resolves to authenticated descriptor", func(t *testing.T) {
		raw, err := codec.Sign("user-1", "Jane", "jane@company.com", []string{"Admin", "super_admin", "intern"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/dashboard/admin", nil)
		req.Header.Set("Authorization", "Bearer "+raw)

		desc := resolver.Resolve(req)
		require.True(t, desc.Authenticated)
		assert.Equal(t, "user-1", desc.User.ID)
		assert.Equal(t, "jane@company.com", desc.User.Email)
		// Roles are normalized; the unknown "intern" is discarded
		assert.Equal(t, []models.Role{models.RoleAdmin, models.RoleSuperAdmin}, desc.User.Roles)
		assert.ElementsMatch(t,
			models.PermissionsForRoles(desc.User.Roles),
			desc.User.Permissions)
		assert.Equal(t, raw, desc.Token)
	})

	t.Run("missing credential resolves unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard/admin", nil)
		assert.False(t, resolver.Resolve(req).Authenticated)
	})

	t.Run("expired and malformed both resolve unauthenticated", func(t *testing.T) {
		expired := token.NewCodec(testSecret, -time.Minute)
		raw, err := expired.Sign("user-1", "Jane", "jane@company.com", []string{"employee"})
		require.NoError(t, err)

		for _, credential := range []string{raw, "garbage"} {
			req := httptest.NewRequest(http.MethodGet, "/dashboard/employee", nil)
			req.Header.Set("Authorization", "Bearer "+credential)
			desc := resolver.Resolve(req)
			assert.False(t, desc.Authenticated)
			// The descriptor does not reveal why
			assert.Empty(t, desc.User.ID)
		}
	})

	t.Run("cookie credential works end to end", func(t *testing.T) {
		raw, err := codec.Sign("user-2", "Bo", "bo@company.com", []string{"employee"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/dashboard/employee", nil)
		req.AddCookie(&http.Cookie{Name: CookieAccessToken, Value: raw})

		desc := resolver.Resolve(req)
		require.True(t, desc.Authenticated)
		assert.Equal(t, []models.Role{models.RoleEmployee}, desc.User.Roles)
	})
}
