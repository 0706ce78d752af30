package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/auth"
	"github.com/iliyamo/museum-desk/internal/session"
	"github.com/iliyamo/museum-desk/internal/utils"
)

// SessionCookie carries the signed session token.
const SessionCookie = "museum_sid"

// LoginPath is where unauthenticated browsers are sent.
const LoginPath = "/login"

// SessionAuth resolves the request identity from the session cookie and
// the server-side store. It fails closed: a missing, forged or expired
// session redirects browsers to the login page and answers 401 otherwise.
func SessionAuth(secret string, store session.Store, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := resolveIdentity(c, secret, store)
			if err != nil {
				if !errors.Is(err, errNoSession) {
					log.Debug("session rejected", zap.String("path", c.Path()), zap.Error(err))
				}
				if WantsHTML(c) {
					return c.Redirect(http.StatusSeeOther, LoginPath)
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			auth.WithIdentity(c, id)
			return next(c)
		}
	}
}

// OptionalSession attaches the identity when a valid session exists and
// otherwise lets the request through anonymously.
func OptionalSession(secret string, store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, err := resolveIdentity(c, secret, store); err == nil {
				auth.WithIdentity(c, id)
			}
			return next(c)
		}
	}
}

var errNoSession = errors.New("no session cookie")

func resolveIdentity(c echo.Context, secret string, store session.Store) (auth.Identity, error) {
	ck, err := c.Cookie(SessionCookie)
	if err != nil || ck.Value == "" {
		return auth.Identity{}, errNoSession
	}
	claims, err := utils.ParseSessionToken(secret, ck.Value)
	if err != nil {
		return auth.Identity{}, err
	}
	data, err := store.Get(c.Request().Context(), claims.SessionID)
	if err != nil {
		return auth.Identity{}, err
	}
	return data.Identity(claims.SessionID)
}

// SetSessionCookie writes the signed token as an HttpOnly cookie.
func SetSessionCookie(c echo.Context, token string, exp time.Time, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie in the browser.
func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
