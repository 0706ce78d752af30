package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/auth"
	"github.com/iliyamo/museum-desk/internal/model"
	"github.com/iliyamo/museum-desk/internal/service"
)

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{&service.ValidationError{Field: "capacity", Message: "must be at least 1"}, http.StatusBadRequest},
		{&service.CapacityError{Remaining: 2}, http.StatusConflict},
		{&service.StockError{ItemID: 1, Name: "Mug", Available: 0}, http.StatusConflict},
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrUnknownReport, http.StatusNotFound},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrAccountInactive, http.StatusForbidden},
		{service.ErrNotOwnMembership, http.StatusForbidden},
		{service.ErrUsernameTaken, http.StatusConflict},
		{service.ErrAlreadyCheckedIn, http.StatusConflict},
		{service.ErrEmptyCart, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: upgrade from patron to student", service.ErrInvalidTierChange), http.StatusUnprocessableEntity},
		{service.ErrManagerNotInDepartment, http.StatusUnprocessableEntity},
		{errors.New("Error 1146: Table 'museum.sales' doesn't exist"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, rec := newContext(http.MethodPost, "/x", "")
		require.NoError(t, respondError(c, zap.NewNop(), tc.err))
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
	}
}

func TestRespondErrorHidesDatabaseErrors(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/x", "")
	require.NoError(t, respondError(c, zap.NewNop(), errors.New("Error 1045: Access denied for user 'museum'@'10.0.0.3'")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "museum")
	assert.Contains(t, rec.Body.String(), "internal error")
}

func TestCapacityErrorBody(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/x", "")
	require.NoError(t, respondError(c, zap.NewNop(), &service.CapacityError{Remaining: 2}))
	assert.JSONEq(t, `{"error":"only 2 remaining","remaining":2}`, rec.Body.String())
}

func TestBindValidation(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/events", `{"name":"Night tour","event_date":"2024-06-01","capacity":0}`)
	var req eventReq
	ok, err := bind(c, &req)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Capacity")

	c, rec = newContext(http.MethodPost, "/x", `{not json`)
	ok, err = bind(c, &req)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidatorDecimal(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/shop/items", `{"item_name":"Mug","price":"0"}`)
	var req itemReq
	ok, err := bind(c, &req)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, rec.Body.String(), "Price")

	c, _ = newContext(http.MethodPost, "/shop/items", `{"item_name":"Mug","price":"12.50","quantity_in_stock":4}`)
	req = itemReq{}
	ok, err = bind(c, &req)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "12.5", req.Price.String())
}

func TestParseEventDate(t *testing.T) {
	for _, raw := range []string{"2024-06-01", "2024-06-01T18:30", "2024-06-01 18:30", "2024-06-01T18:30:00Z"} {
		_, ok := parseEventDate(raw)
		assert.True(t, ok, raw)
	}
	_, ok := parseEventDate("06/01/2024")
	assert.False(t, ok)

	got, _ := parseEventDate("2024-06-01T18:30")
	assert.Equal(t, time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC), got)
}

func TestOptionalID(t *testing.T) {
	id, err := optionalID("")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = optionalID(" 12 ")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, uint64(12), *id)

	_, err = optionalID("abc")
	assert.Error(t, err)
}

func TestCheckoutEmptyCart(t *testing.T) {
	h := NewShopHandler(service.NewInventoryService(service.Deps{}), service.NewSalesService(service.Deps{}), zap.NewNop())
	c, rec := newContext(http.MethodPost, "/shop/checkout", `{"items":[],"payment_method":"cash"}`)
	auth.WithIdentity(c, auth.Identity{AccountID: 2, Role: auth.RoleShopStaff})

	require.NoError(t, h.Checkout(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart is empty")
}

func TestMembershipChangeOtherMemberDenied(t *testing.T) {
	h := NewMembershipHandler(service.NewMembershipService(service.Deps{}), zap.NewNop())
	c, rec := newContext(http.MethodPost, "/members/9/cancel", `{}`)
	c.SetParamNames("id", "action")
	c.SetParamValues("9", "cancel")
	auth.WithIdentity(c, auth.Identity{AccountID: 5, Role: auth.RoleMember, Profile: model.MemberProfile(4)})

	require.NoError(t, h.Change(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMembershipChangeUnknownAction(t *testing.T) {
	h := NewMembershipHandler(service.NewMembershipService(service.Deps{}), zap.NewNop())
	c, rec := newContext(http.MethodPost, "/members/4/freeze", `{}`)
	c.SetParamNames("id", "action")
	c.SetParamValues("4", "freeze")
	auth.WithIdentity(c, auth.Identity{AccountID: 5, Role: auth.RoleMember, Profile: model.MemberProfile(4)})

	require.NoError(t, h.Change(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPurchaseMemberWithoutProfileDenied(t *testing.T) {
	h := NewEventHandler(service.NewEventService(service.Deps{}), service.NewTicketService(service.Deps{}), zap.NewNop())
	c, rec := newContext(http.MethodPost, "/events/1/tickets", `{"quantity":1,"member_id":"7"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	auth.WithIdentity(c, auth.Identity{AccountID: 5, Role: auth.RoleMember})

	require.NoError(t, h.Purchase(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReportAuthorize(t *testing.T) {
	h := NewReportHandler(service.NewReportService(service.Deps{}), zap.NewNop())
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	run := func(name string, role auth.Role) int {
		c, rec := newContext(http.MethodGet, "/reports/"+name, "")
		c.SetParamNames("name")
		c.SetParamValues(name)
		auth.WithIdentity(c, auth.Identity{AccountID: 1, Role: role})
		require.NoError(t, h.Authorize(next)(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run("sales", auth.RoleShopStaff))
	assert.Equal(t, http.StatusOK, run("sales", auth.RoleCurator))
	assert.Equal(t, http.StatusForbidden, run("sales", auth.RoleMember))
	assert.Equal(t, http.StatusForbidden, run("activity", auth.RoleCurator))
	assert.Equal(t, http.StatusOK, run("activity", auth.RoleAdmin))
	assert.Equal(t, http.StatusNotFound, run("payroll", auth.RoleAdmin))
}

func TestBannerText(t *testing.T) {
	assert.Equal(t, "You do not have permission to access that page.", bannerText("access_denied"))
	assert.Equal(t, "custom", bannerText("custom"))
}
