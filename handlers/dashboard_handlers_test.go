package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrm-access/middleware"
)

func TestDashboardPageGuard(t *testing.T) {
	h := &Handler{}

	tests := []struct {
		name        string
		handler     http.HandlerFunc
		rolesHeader string
		expected    int
	}{
		{
			name:        "admin sees admin dashboard",
			handler:     h.AdminDashboard,
			rolesHeader: "admin",
			expected:    http.StatusOK,
		},
		{
			name:        "super-admin sees admin dashboard",
			handler:     h.AdminDashboard,
			rolesHeader: "super-admin",
			expected:    http.StatusOK,
		},
		{
			name:        "employee denied on admin dashboard",
			handler:     h.AdminDashboard,
			rolesHeader: "employee",
			expected:    http.StatusForbidden,
		},
		{
			name:        "admin denied on super-admin dashboard",
			handler:     h.SuperAdminDashboard,
			rolesHeader: "admin",
			expected:    http.StatusForbidden,
		},
		{
			name:        "missing headers denied",
			handler:     h.EmployeeDashboard,
			rolesHeader: "",
			expected:    http.StatusForbidden,
		},
		{
			name:        "unknown role denied",
			handler:     h.EmployeeDashboard,
			rolesHeader: "contractor",
			expected:    http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dashboard/any", nil)
			if tt.rolesHeader != "" {
				req.Header.Set(middleware.HeaderRoles, tt.rolesHeader)
			}
			rec := httptest.NewRecorder()
			tt.handler(rec, req)

			require.Equal(t, tt.expected, rec.Code)
			if tt.expected == http.StatusForbidden {
				assert.Contains(t, rec.Body.String(), "Access Denied")
			}
		})
	}
}

func TestLoginPageEscapesCallback(t *testing.T) {
	h := &Handler{}

	req := httptest.NewRequest(http.MethodGet, "/login?callbackUrl=%22%3E%3Cscript%3Ealert(1)%3C/script%3E", nil)
	rec := httptest.NewRecorder()
	h.LoginPage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>")
}
