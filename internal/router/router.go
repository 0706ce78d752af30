// Package router registers the HTTP routes and the middleware in front of
// each group.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/museum-desk/internal/auth"
	"github.com/iliyamo/museum-desk/internal/handler"
	"github.com/iliyamo/museum-desk/internal/metrics"
	mw "github.com/iliyamo/museum-desk/internal/middleware"
)

// Guards are the shared middlewares handed to every Register* function.
type Guards struct {
	Session   echo.MiddlewareFunc // fails closed without a valid session
	RateLimit echo.MiddlewareFunc // token bucket for credential and public purchase posts
	Cache     echo.MiddlewareFunc // Redis response cache for read-heavy listings
}

// RegisterRoutes registers the unauthenticated probes and the metrics
// endpoint.
func RegisterRoutes(e *echo.Echo, db *sql.DB, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db, rdb))
	e.GET("/metrics", metrics.Handler())
}

// RegisterAuth registers login, logout, self-registration and the
// dashboard.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, g Guards) {
	e.POST("/login", a.Login, g.RateLimit)
	e.POST("/register", a.Register, g.RateLimit)
	e.POST("/logout", a.Logout, g.Session)
	e.GET("/dashboard", a.Dashboard, g.Session)
}

// RegisterAdmin registers account and department administration. Every
// route is admin-only through the permission table.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, g Guards) {
	users := []echo.MiddlewareFunc{g.Session, mw.RequirePermission(auth.PermManageUsers)}
	e.GET("/admin/users", h.ListUsers, users...)
	e.POST("/admin/users", h.CreateUser, users...)
	e.POST("/admin/users/:id/active", h.SetActive, users...)
	e.GET("/api/users/:id", h.GetUser, users...)

	depts := e.Group("/admin/departments", g.Session, mw.RequirePermission(auth.PermManageDepartments))
	depts.GET("", h.ListDepartments)
	depts.POST("", h.CreateDepartment)
	depts.POST("/:id/manager", h.AssignManager)
}
