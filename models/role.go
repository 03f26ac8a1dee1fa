package models

import "strings"

// Role is a coarse-grained identity category driving navigation and routing.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

// rolePriority orders roles from highest privilege to lowest. Login-path and
// home-path resolution both resolve through HighestPriorityRole, so a
// multi-role user is always routed by the same winning role.
var rolePriority = []Role{RoleSuperAdmin, RoleAdmin, RoleEmployee}

// NormalizeRole maps a raw role string from a token or a stored session onto
// the closed Role set. Matching is case-insensitive and treats underscores as
// hyphens. Unrecognized strings report ok=false and are discarded by callers
// rather than propagated.
func NormalizeRole(raw string) (Role, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	switch Role(normalized) {
	case RoleEmployee, RoleAdmin, RoleSuperAdmin:
		return Role(normalized), true
	}
	return "", false
}

// NormalizeRoles filters raw role strings down to recognized roles, dropping
// duplicates and unknown values.
func NormalizeRoles(raw []string) []Role {
	seen := make(map[Role]bool)
	var roles []Role
	for _, r := range raw {
		role, ok := NormalizeRole(r)
		if !ok || seen[role] {
			continue
		}
		seen[role] = true
		roles = append(roles, role)
	}
	return roles
}

// HighestPriorityRole returns the highest-privilege role the user holds. ok
// is false when none of the given roles is recognized.
func HighestPriorityRole(roles []Role) (Role, bool) {
	for _, candidate := range rolePriority {
		for _, r := range roles {
			if r == candidate {
				return candidate, true
			}
		}
	}
	return "", false
}

// RoleStrings converts roles to plain strings for claims, cookies and headers.
func RoleStrings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
