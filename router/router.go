package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"hrm-access/handlers"
	"hrm-access/middleware"
	"hrm-access/models"
)

// SetupRoutes wires the credential endpoints, the gated dashboard pages and
// the bearer-authenticated JSON API.
//
// The gate wraps the whole router rather than a subrouter: mux only runs
// subrouter middleware on matched routes, so a protected path with no
// registered page would 404 before the gate could redirect it. At the edge
// the gate sees every request first and passes through anything outside the
// protected prefix.
func SetupRoutes(h *handlers.Handler, gate *middleware.Gate) http.Handler {
	router := mux.NewRouter()

	// Credential exchange endpoints (no authentication required)
	router.HandleFunc("/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/auth/signup", h.SignUp).Methods("POST")
	router.HandleFunc("/auth/logout", h.Logout).Methods("POST")
	router.HandleFunc("/auth/forgot-password", h.ForgotPassword).Methods("POST")
	router.HandleFunc("/auth/reset-password", h.ResetPassword).Methods("POST")

	// Public pages the gate redirects to
	router.HandleFunc("/login", h.LoginPage).Methods("GET")
	router.HandleFunc("/admin/login", h.AdminLoginPage).Methods("GET")
	router.HandleFunc("/403", h.ForbiddenPage).Methods("GET")

	// Dashboard pages; authorization happens in the gate before routing
	dashboard := router.PathPrefix("/dashboard").Subrouter()
	dashboard.HandleFunc("/employee", h.EmployeeDashboard).Methods("GET")
	dashboard.HandleFunc("/admin", h.AdminDashboard).Methods("GET")
	dashboard.HandleFunc("/super-admin", h.SuperAdminDashboard).Methods("GET")

	// JSON API behind bearer authentication
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(h.Codec))

	api.Handle("/me", http.HandlerFunc(h.GetProfile)).Methods("GET")

	// Employee directory routes
	api.Handle("/employees",
		middleware.RequirePermission(models.PermissionEmployeesView)(
			http.HandlerFunc(h.GetEmployees))).Methods("GET")
	api.Handle("/employees/{id}",
		middleware.RequirePermission(models.PermissionEmployeesView)(
			http.HandlerFunc(h.GetEmployeeDetails))).Methods("GET")
	api.Handle("/employees/{id}",
		middleware.RequirePermission(models.PermissionEmployeesManage)(
			http.HandlerFunc(h.UpdateEmployee))).Methods("PUT")

	// Role management routes (super-admin only)
	api.Handle("/roles",
		middleware.RequirePermission(models.PermissionSettingsManage)(
			http.HandlerFunc(h.ListRoles))).Methods("GET")
	api.Handle("/roles",
		middleware.RequireRole(models.RoleSuperAdmin)(
			http.HandlerFunc(h.AssignRoles))).Methods("POST")

	return gate.Middleware()(router)
}
