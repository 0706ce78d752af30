package middleware

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/museum-desk/internal/auth"
)

// WantsHTML reports whether the caller is a browser navigating pages, in
// which case gate failures redirect instead of returning JSON.
func WantsHTML(c echo.Context) bool {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMETextHTML)
}

// actorKey identifies the caller for rate limiting: the account id when a
// session was resolved, "anon" otherwise.
func actorKey(c echo.Context) string {
	if id, err := auth.FromContext(c); err == nil {
		return strconv.FormatUint(id.AccountID, 10)
	}
	return "anon"
}
