package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/museum-desk/internal/auth"
)

// DeniedPath is where browsers land when a permission check fails.
const DeniedPath = "/dashboard?error=access_denied"

// RequirePermission lets the request through when the identity holds at
// least one of perms. Admin passes every check. It must run after
// SessionAuth; a missing identity is treated as unauthenticated.
func RequirePermission(perms ...auth.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := auth.FromContext(c)
			if err != nil {
				if WantsHTML(c) {
					return c.Redirect(http.StatusSeeOther, LoginPath)
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			if !id.CanAny(perms...) {
				return Deny(c)
			}
			return next(c)
		}
	}
}

// Deny answers a failed permission check: a redirect to the dashboard
// banner for browsers and 403 otherwise.
func Deny(c echo.Context) error {
	if WantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, DeniedPath)
	}
	return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
}
