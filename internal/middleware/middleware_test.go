package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/auth"
	"github.com/iliyamo/museum-desk/internal/model"
	"github.com/iliyamo/museum-desk/internal/session"
	"github.com/iliyamo/museum-desk/internal/utils"
)

const testSecret = "test-secret"

type memStore map[string]session.Data

func (m memStore) Create(_ context.Context, d session.Data) (string, error) {
	sid := "sid-" + d.Handle
	m[sid] = d
	return sid, nil
}

func (m memStore) Get(_ context.Context, sid string) (session.Data, error) {
	d, ok := m[sid]
	if !ok {
		return session.Data{}, session.ErrNotFound
	}
	return d, nil
}

func (m memStore) Delete(_ context.Context, sid string) error {
	delete(m, sid)
	return nil
}

func newRequest(t *testing.T, accept string, cookie *http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	if accept != "" {
		req.Header.Set(echo.HeaderAccept, accept)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func signedCookie(t *testing.T, sid string) *http.Cookie {
	t.Helper()
	tok, err := utils.NewSessionToken(testSecret, sid, "1", time.Hour, time.Now())
	require.NoError(t, err)
	return &http.Cookie{Name: SessionCookie, Value: tok.Token}
}

func ok(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestSessionAuthNoCookie(t *testing.T) {
	store := memStore{}

	c, rec := newRequest(t, "text/html,application/xhtml+xml", nil)
	require.NoError(t, SessionAuth(testSecret, store, zap.NewNop())(ok)(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get(echo.HeaderLocation))

	c, rec = newRequest(t, "application/json", nil)
	require.NoError(t, SessionAuth(testSecret, store, zap.NewNop())(ok)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthUnknownSession(t *testing.T) {
	c, rec := newRequest(t, "", signedCookie(t, "gone"))
	require.NoError(t, SessionAuth(testSecret, memStore{}, zap.NewNop())(ok)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthForgedToken(t *testing.T) {
	store := memStore{"sid-1": {AccountID: 1, Role: "admin", Handle: "root", ExpiresAt: time.Now().Add(time.Hour)}}
	tok, err := utils.NewSessionToken("other-secret", "sid-1", "1", time.Hour, time.Now())
	require.NoError(t, err)

	c, rec := newRequest(t, "", &http.Cookie{Name: SessionCookie, Value: tok.Token})
	require.NoError(t, SessionAuth(testSecret, store, zap.NewNop())(ok)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthResolvesIdentity(t *testing.T) {
	store := memStore{"sid-7": {
		AccountID:   7,
		Role:        "member",
		Handle:      "jane",
		ProfileKind: model.ProfileMember,
		ProfileID:   42,
		ExpiresAt:   time.Now().Add(time.Hour),
	}}

	c, rec := newRequest(t, "", signedCookie(t, "sid-7"))
	var got auth.Identity
	h := SessionAuth(testSecret, store, zap.NewNop())(func(c echo.Context) error {
		var err error
		got, err = auth.FromContext(c)
		require.NoError(t, err)
		return ok(c)
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), got.AccountID)
	assert.Equal(t, auth.RoleMember, got.Role)
	memberID, isMember := got.MemberID()
	assert.True(t, isMember)
	assert.Equal(t, uint64(42), memberID)
	assert.Equal(t, "sid-7", got.SessionID)
}

func TestOptionalSessionAnonymous(t *testing.T) {
	c, rec := newRequest(t, "", nil)
	h := OptionalSession(testSecret, memStore{})(func(c echo.Context) error {
		_, err := auth.FromContext(c)
		assert.ErrorIs(t, err, auth.ErrNoIdentity)
		return ok(c)
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func withIdentity(c echo.Context, role auth.Role) {
	auth.WithIdentity(c, auth.Identity{AccountID: 3, Role: role, Handle: "x"})
}

func TestRequirePermission(t *testing.T) {
	gate := RequirePermission(auth.PermProcessSales)

	c, rec := newRequest(t, "application/json", nil)
	withIdentity(c, auth.RoleCurator)
	require.NoError(t, gate(ok)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newRequest(t, "text/html", nil)
	withIdentity(c, auth.RoleCurator)
	require.NoError(t, gate(ok)(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, DeniedPath, rec.Header().Get(echo.HeaderLocation))

	c, rec = newRequest(t, "", nil)
	withIdentity(c, auth.RoleShopStaff)
	require.NoError(t, gate(ok)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newRequest(t, "", nil)
	withIdentity(c, auth.RoleAdmin)
	require.NoError(t, gate(ok)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePermissionAnyOf(t *testing.T) {
	gate := RequirePermission(auth.PermViewSales, auth.PermViewReports)

	c, rec := newRequest(t, "", nil)
	withIdentity(c, auth.RoleCurator)
	require.NoError(t, gate(ok)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newRequest(t, "", nil)
	withIdentity(c, auth.RoleMember)
	require.NoError(t, gate(ok)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePermissionWithoutIdentity(t *testing.T) {
	c, rec := newRequest(t, "", nil)
	require.NoError(t, RequirePermission(auth.PermViewEvents)(ok)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionCookieFlags(t *testing.T) {
	c, rec := newRequest(t, "", nil)
	SetSessionCookie(c, "tok", time.Now().Add(time.Hour), true)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
}
