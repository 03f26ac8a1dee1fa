package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrm-access/models"
)

func TestAllowedRoles(t *testing.T) {
	table := Default("/dashboard")

	tests := []struct {
		name     string
		path     string
		expected []models.Role
		ok       bool
	}{
		{
			name:     "super-admin section",
			path:     "/dashboard/super-admin",
			expected: []models.Role{models.RoleSuperAdmin},
			ok:       true,
		},
		{
			name:     "admin section admits super-admin",
			path:     "/dashboard/admin/settings",
			expected: []models.Role{models.RoleAdmin, models.RoleSuperAdmin},
			ok:       true,
		},
		{
			name:     "employee section admits everyone",
			path:     "/dashboard/employee/leave",
			expected: []models.Role{models.RoleEmployee, models.RoleAdmin, models.RoleSuperAdmin},
			ok:       true,
		},
		{
			name: "protected but unmapped",
			path: "/dashboard/reports",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles, ok := table.AllowedRoles(tt.path)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, roles)
			}
		})
	}
}

func TestLongestPrefixWins(t *testing.T) {
	table := New("/dashboard",
		[]Entry{
			{Prefix: "/dashboard/admin", Roles: []models.Role{models.RoleAdmin}},
			{Prefix: "/dashboard/admin/backups", Roles: []models.Role{models.RoleSuperAdmin}},
		},
		map[models.Role]string{},
		map[models.Role]string{},
	)

	roles, ok := table.AllowedRoles("/dashboard/admin/backups/restore")
	require.True(t, ok)
	assert.Equal(t, []models.Role{models.RoleSuperAdmin}, roles)
}

func TestLoginAndHomePathsAgreeOnPriority(t *testing.T) {
	table := Default("/dashboard")

	tests := []struct {
		name          string
		roles         []models.Role
		expectedLogin string
		expectedHome  string
		homeOK        bool
	}{
		{
			name:          "employee only",
			roles:         []models.Role{models.RoleEmployee},
			expectedLogin: "/login",
			expectedHome:  "/dashboard/employee",
			homeOK:        true,
		},
		{
			name:          "admin and employee routed by admin",
			roles:         []models.Role{models.RoleEmployee, models.RoleAdmin},
			expectedLogin: "/admin/login",
			expectedHome:  "/dashboard/admin",
			homeOK:        true,
		},
		{
			name:          "super-admin outranks all",
			roles:         []models.Role{models.RoleEmployee, models.RoleAdmin, models.RoleSuperAdmin},
			expectedLogin: "/admin/login",
			expectedHome:  "/dashboard/super-admin",
			homeOK:        true,
		},
		{
			name:          "no roles falls back to generic login and no home",
			roles:         nil,
			expectedLogin: "/login",
			homeOK:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedLogin, table.LoginPathFor(tt.roles))

			home, ok := table.HomePathFor(tt.roles)
			require.Equal(t, tt.homeOK, ok)
			if tt.homeOK {
				assert.Equal(t, tt.expectedHome, home)
			}
		})
	}
}

func TestIsProtected(t *testing.T) {
	table := Default("/dashboard")

	assert.True(t, table.IsProtected("/dashboard/employee"))
	assert.True(t, table.IsProtected("/dashboard"))
	assert.False(t, table.IsProtected("/login"))
	assert.False(t, table.IsProtected("/api/employees"))
}
