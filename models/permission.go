package models

// PermissionKey represents a single capability gating a view or action
type PermissionKey string

const (
	// Navigation permissions
	PermissionDashboardView PermissionKey = "dashboard.view"
	PermissionProfileView   PermissionKey = "profile.view"

	// Employee directory permissions
	PermissionEmployeesView   PermissionKey = "employees.view"
	PermissionEmployeesManage PermissionKey = "employees.manage"

	// Leave permissions
	PermissionLeaveRequest PermissionKey = "leave.request"
	PermissionLeaveApprove PermissionKey = "leave.approve"

	// Attendance permissions
	PermissionAttendanceView   PermissionKey = "attendance.view"
	PermissionAttendanceManage PermissionKey = "attendance.manage"

	// Admin permissions
	PermissionSettingsManage PermissionKey = "settings.manage"
	PermissionBackupsManage  PermissionKey = "backups.manage"
)

// RolePermissions maps roles to their permissions. Permissions are derived,
// never stored: a user's effective set is always the union over their roles.
var RolePermissions = map[Role][]PermissionKey{
	RoleEmployee: {
		PermissionDashboardView,
		PermissionProfileView,
		PermissionLeaveRequest,
		PermissionAttendanceView,
	},
	RoleAdmin: {
		PermissionDashboardView,
		PermissionProfileView,
		PermissionEmployeesView,
		PermissionEmployeesManage,
		PermissionLeaveRequest,
		PermissionLeaveApprove,
		PermissionAttendanceView,
		PermissionAttendanceManage,
	},
	RoleSuperAdmin: {
		PermissionDashboardView,
		PermissionProfileView,
		PermissionEmployeesView,
		PermissionEmployeesManage,
		PermissionLeaveRequest,
		PermissionLeaveApprove,
		PermissionAttendanceView,
		PermissionAttendanceManage,
		PermissionSettingsManage,
		PermissionBackupsManage,
	},
}

// PermissionsForRoles returns the union of the permissions granted to each
// role. Unknown roles contribute nothing. Duplicates are collapsed, so the
// result carries set semantics regardless of input order.
func PermissionsForRoles(roles []Role) []PermissionKey {
	seen := make(map[PermissionKey]bool)
	var permissions []PermissionKey
	for _, role := range roles {
		for _, permission := range RolePermissions[role] {
			if seen[permission] {
				continue
			}
			seen[permission] = true
			permissions = append(permissions, permission)
		}
	}
	return permissions
}

// HasPermission reports whether every required permission is present in the
// granted set.
func HasPermission(granted []PermissionKey, required ...PermissionKey) bool {
	for _, want := range required {
		found := false
		for _, have := range granted {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// PermissionStrings converts permissions to plain strings for cookies and
// headers.
func PermissionStrings(permissions []PermissionKey) []string {
	out := make([]string, len(permissions))
	for i, p := range permissions {
		out[i] = string(p)
	}
	return out
}
