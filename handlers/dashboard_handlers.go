package handlers

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"hrm-access/middleware"
	"hrm-access/models"
)

// Dashboard pages served behind the edge gate. These are deliberately thin:
// they render from the identity headers the gate attached, trusting its
// decision instead of re-verifying the token.

// EmployeeDashboard renders the employee home page
func (h *Handler) EmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, "Employee Dashboard",
		models.RoleEmployee, models.RoleAdmin, models.RoleSuperAdmin)
}

// AdminDashboard renders the admin home page
func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, "Admin Dashboard",
		models.RoleAdmin, models.RoleSuperAdmin)
}

// SuperAdminDashboard renders the super-admin home page
func (h *Handler) SuperAdminDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, "Super Admin Dashboard", models.RoleSuperAdmin)
}

// renderDashboard is the page-level guard: even if a lower layer serves the
// page without the gate's role check, a caller without an allowed role sees
// the access-denied page instead of the dashboard.
func (h *Handler) renderDashboard(w http.ResponseWriter, r *http.Request, title string, allowed ...models.Role) {
	roles := models.NormalizeRoles(splitHeaderList(r.Header.Get(middleware.HeaderRoles)))

	permitted := false
	for _, role := range roles {
		for _, a := range allowed {
			if role == a {
				permitted = true
			}
		}
	}
	if !permitted {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "<h1>403 - Access Denied</h1>")
		return
	}

	userID := r.Header.Get(middleware.HeaderUserID)
	permissions := r.Header.Get(middleware.HeaderPermissions)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<h1>%s</h1><p>user: %s</p><p>roles: %s</p><p>permissions: %s</p>",
		title, userID, strings.Join(models.RoleStrings(roles), ","), permissions)
}

// LoginPage renders the employee sign-in page stub
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	renderLogin(w, r, "Sign in")
}

// AdminLoginPage renders the admin sign-in page stub
func (h *Handler) AdminLoginPage(w http.ResponseWriter, r *http.Request) {
	renderLogin(w, r, "Admin sign in")
}

// ForbiddenPage renders the generic access-denied page
func (h *Handler) ForbiddenPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	fmt.Fprint(w, "<h1>403 - Access Denied</h1>")
}

func renderLogin(w http.ResponseWriter, r *http.Request, title string) {
	// The callback comes from the gate's redirect but could be typed by hand
	callback := html.EscapeString(r.URL.Query().Get("callbackUrl"))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<h1>%s</h1><form method=\"post\" action=\"/auth/login\" data-callback=\"%s\"></form>",
		title, callback)
}

func splitHeaderList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}
