// Package routes holds the static authorization table for dashboard
// navigation: which roles may enter which path prefixes, and where each role
// signs in and lands after sign-in.
package routes

import (
	"strings"

	"hrm-access/models"
)

// Entry maps a path prefix to the roles allowed under it
type Entry struct {
	Prefix string
	Roles  []models.Role
}

// Table resolves paths to allowed roles and roles to their login and home
// destinations. It is read-only after construction.
type Table struct {
	protectedPrefix string
	entries         []Entry
	loginPaths      map[models.Role]string
	homePaths       map[models.Role]string

	// GenericLogin receives unauthenticated users whose target route has no
	// role-specific login page. Forbidden receives authenticated users who
	// hold no role with a configured home page.
	GenericLogin string
	Forbidden    string
}

// New builds a table over the given protected prefix
func New(protectedPrefix string, entries []Entry, loginPaths, homePaths map[models.Role]string) *Table {
	return &Table{
		protectedPrefix: protectedPrefix,
		entries:         entries,
		loginPaths:      loginPaths,
		homePaths:       homePaths,
		GenericLogin:    "/login",
		Forbidden:       "/403",
	}
}

// Default returns the table matching the dashboard layout of the HR app
func Default(protectedPrefix string) *Table {
	return New(
		protectedPrefix,
		[]Entry{
			{Prefix: protectedPrefix + "/super-admin", Roles: []models.Role{models.RoleSuperAdmin}},
			{Prefix: protectedPrefix + "/admin", Roles: []models.Role{models.RoleAdmin, models.RoleSuperAdmin}},
			{Prefix: protectedPrefix + "/employee", Roles: []models.Role{models.RoleEmployee, models.RoleAdmin, models.RoleSuperAdmin}},
		},
		map[models.Role]string{
			models.RoleSuperAdmin: "/admin/login",
			models.RoleAdmin:      "/admin/login",
			models.RoleEmployee:   "/login",
		},
		map[models.Role]string{
			models.RoleSuperAdmin: protectedPrefix + "/super-admin",
			models.RoleAdmin:      protectedPrefix + "/admin",
			models.RoleEmployee:   protectedPrefix + "/employee",
		},
	)
}

// ProtectedPrefix returns the prefix the edge gate intercepts
func (t *Table) ProtectedPrefix() string {
	return t.protectedPrefix
}

// IsProtected reports whether the path falls under the protected prefix
func (t *Table) IsProtected(path string) bool {
	return strings.HasPrefix(path, t.protectedPrefix)
}

// AllowedRoles returns the allowed roles for the longest matching entry. ok
// is false when the path is protected but has no entry; callers must treat
// that conservatively rather than granting access.
func (t *Table) AllowedRoles(path string) ([]models.Role, bool) {
	var match *Entry
	for i := range t.entries {
		entry := &t.entries[i]
		if !strings.HasPrefix(path, entry.Prefix) {
			continue
		}
		if match == nil || len(entry.Prefix) > len(match.Prefix) {
			match = entry
		}
	}
	if match == nil {
		return nil, false
	}
	return match.Roles, true
}

// LoginPathFor returns the login page of the user's highest-priority role,
// falling back to the generic login page. The same winning role drives
// HomePathFor, so the two can never disagree about where a multi-role user
// is routed.
func (t *Table) LoginPathFor(roles []models.Role) string {
	if role, ok := models.HighestPriorityRole(roles); ok {
		if path, ok := t.loginPaths[role]; ok {
			return path
		}
	}
	return t.GenericLogin
}

// HomePathFor returns the home page of the user's highest-priority role. ok
// is false when no role is recognized or the winning role has no home
// configured.
func (t *Table) HomePathFor(roles []models.Role) (string, bool) {
	if role, ok := models.HighestPriorityRole(roles); ok {
		path, ok := t.homePaths[role]
		return path, ok
	}
	return "", false
}
