package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"hrm-access/models"
	"hrm-access/routes"
	"hrm-access/session"
)

// Identity headers forwarded on authorized pass-through so downstream
// handlers can trust the gate's decision without re-verifying the token.
const (
	HeaderUserID      = "X-User-Id"
	HeaderRoles       = "X-User-Roles"
	HeaderPermissions = "X-User-Permissions"
)

// Gate is the per-request edge middleware protecting dashboard navigation.
// Every invocation terminates in exactly one of: pass-through, redirect to a
// login page, or redirect to a role home / forbidden page. It keeps no state
// across requests and never fails the request with an error.
type Gate struct {
	resolver *session.Resolver
	table    *routes.Table
	logger   *slog.Logger
}

// NewGate creates the edge gate
func NewGate(resolver *session.Resolver, table *routes.Table, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{resolver: resolver, table: table, logger: logger}
}

// Middleware returns the gate as a mux middleware
func (g *Gate) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			// Everything outside the protected prefix passes through untouched
			if !g.table.IsProtected(path) {
				next.ServeHTTP(w, r)
				return
			}

			desc := g.resolver.Resolve(r)
			if !desc.Authenticated {
				// The redirect target depends only on the route's configured
				// roles; no session exists to consult.
				allowed, _ := g.table.AllowedRoles(path)
				g.redirectToLogin(w, r, allowed, path)
				return
			}

			allowed, ok := g.table.AllowedRoles(path)
			if !ok {
				// Protected but unmapped paths route to the user's home
				// instead of being served.
				g.redirectHome(w, r, desc.User.Roles)
				return
			}

			if rolesIntersect(desc.User.Roles, allowed) {
				r.Header.Set(HeaderUserID, desc.User.ID)
				r.Header.Set(HeaderRoles, strings.Join(models.RoleStrings(desc.User.Roles), ","))
				r.Header.Set(HeaderPermissions, strings.Join(models.PermissionStrings(desc.User.Permissions), ","))
				next.ServeHTTP(w, r)
				return
			}

			// Authenticated but not permitted here: send to their own home,
			// never back to login.
			g.redirectHome(w, r, desc.User.Roles)
		})
	}
}

func (g *Gate) redirectToLogin(w http.ResponseWriter, r *http.Request, allowed []models.Role, original string) {
	target := g.table.LoginPathFor(allowed)

	// Carry the original path so the UI can return the user after sign-in
	query := url.Values{}
	query.Set("callbackUrl", original)

	g.logger.Debug("gate: redirecting unauthenticated request",
		"path", original, "target", target)
	http.Redirect(w, r, target+"?"+query.Encode(), http.StatusFound)
}

func (g *Gate) redirectHome(w http.ResponseWriter, r *http.Request, roles []models.Role) {
	if home, ok := g.table.HomePathFor(roles); ok {
		g.logger.Debug("gate: redirecting to role home",
			"path", r.URL.Path, "target", home)
		http.Redirect(w, r, home, http.StatusFound)
		return
	}
	http.Redirect(w, r, g.table.Forbidden, http.StatusFound)
}

func rolesIntersect(held, allowed []models.Role) bool {
	for _, h := range held {
		for _, a := range allowed {
			if h == a {
				return true
			}
		}
	}
	return false
}
