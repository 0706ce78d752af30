package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/auth"
	"github.com/iliyamo/museum-desk/internal/middleware"
	"github.com/iliyamo/museum-desk/internal/model"
	"github.com/iliyamo/museum-desk/internal/service"
	"github.com/iliyamo/museum-desk/internal/session"
	"github.com/iliyamo/museum-desk/internal/utils"
)

// SessionSettings controls how login sessions are issued.
type SessionSettings struct {
	Secret       string
	TTL          time.Duration
	CookieSecure bool
}

// AuthHandler serves login, logout, self-registration and the dashboard.
type AuthHandler struct {
	Session     SessionSettings
	Accounts    *service.AccountService
	Memberships *service.MembershipService
	Inventory   *service.InventoryService
	Store       session.Store
	Log         *zap.Logger
	Now         func() time.Time
}

func NewAuthHandler(s SessionSettings, accounts *service.AccountService, memberships *service.MembershipService,
	inventory *service.InventoryService, store session.Store, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		Session:     s,
		Accounts:    accounts,
		Memberships: memberships,
		Inventory:   inventory,
		Store:       store,
		Log:         log,
		Now:         time.Now,
	}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type registerReq struct {
	Username  string `json:"username" form:"username" validate:"required,max=50"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Password  string `json:"password" form:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" form:"first_name" validate:"required"`
	LastName  string `json:"last_name" form:"last_name" validate:"required"`
	Phone     string `json:"phone" form:"phone"`
	Tier      string `json:"membership_type" form:"membership_type"`
	AutoRenew bool   `json:"auto_renew" form:"auto_renew"`
}

type sessionResp struct {
	User        model.Account     `json:"user"`
	Permissions []auth.Permission `json:"permissions"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// Login verifies the credentials and opens a server-side session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bind(c, &req); !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	acct, err := h.Accounts.Authenticate(ctx, req.Username, req.Password, c.RealIP())
	if err != nil {
		if middleware.WantsHTML(c) {
			return c.Redirect(http.StatusSeeOther, middleware.LoginPath+"?error=invalid_credentials")
		}
		return respondError(c, h.Log, err)
	}

	exp := h.Now().Add(h.Session.TTL)
	sid, err := h.Store.Create(ctx, session.FromAccount(acct, exp))
	if err != nil {
		h.Log.Error("create session failed", zap.Uint64("user_id", acct.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start session"})
	}
	tok, err := utils.NewSessionToken(h.Session.Secret, sid, strconv.FormatUint(acct.ID, 10), h.Session.TTL, h.Now())
	if err != nil {
		h.Log.Error("sign session failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start session"})
	}
	middleware.SetSessionCookie(c, tok.Token, tok.Exp, h.Session.CookieSecure)

	if middleware.WantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	}
	return c.JSON(http.StatusOK, sessionResp{
		User:        acct,
		Permissions: auth.PermissionsFor(auth.Role(acct.Role)),
		ExpiresAt:   tok.Exp,
	})
}

// Logout destroys the server-side session and expires the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	id := identity(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	if id.SessionID != "" {
		if err := h.Store.Delete(ctx, id.SessionID); err != nil {
			h.Log.Warn("delete session failed", zap.String("sid", id.SessionID), zap.Error(err))
		}
	}
	middleware.ClearSessionCookie(c, h.Session.CookieSecure)
	h.Accounts.Logout(ctx, actor(c))

	if middleware.WantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	}
	return c.NoContent(http.StatusNoContent)
}

// Register is public self-registration. The role is always member.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bind(c, &req); !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	acct, err := h.Accounts.Create(ctx, service.Actor{IP: c.RealIP()}, service.NewAccount{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Role:      string(auth.RoleMember),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Tier:      req.Tier,
		AutoRenew: req.AutoRenew,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, acct)
}

var banners = map[string]string{
	"access_denied":      "You do not have permission to access that page.",
	"reorder_confirmed":  "Reorder confirmed.",
	"reorder_rejected":   "Reorder rejected and stock adjusted.",
	"membership_updated": "Membership updated.",
}

type dashboardResp struct {
	User           string              `json:"user"`
	Role           auth.Role           `json:"role"`
	Permissions    []auth.Permission   `json:"permissions"`
	Error          string              `json:"error,omitempty"`
	Notice         string              `json:"notice,omitempty"`
	Membership     *service.MemberView `json:"membership,omitempty"`
	PendingReorder []model.ShopItem    `json:"pending_reorders,omitempty"`
}

// Dashboard shows the identity, what it may do and the role-specific
// sections: a member's own membership and, for inventory staff, items
// awaiting reorder confirmation.
func (h *AuthHandler) Dashboard(c echo.Context) error {
	id := identity(c)
	resp := dashboardResp{
		User:        id.Handle,
		Role:        id.Role,
		Permissions: auth.PermissionsFor(id.Role),
	}
	if key := c.QueryParam("error"); key != "" {
		resp.Error = bannerText(key)
	}
	if key := c.QueryParam("notice"); key != "" {
		resp.Notice = bannerText(key)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if memberID, ok := id.MemberID(); ok {
		mv, err := h.Memberships.Get(ctx, memberID)
		if err != nil {
			return respondError(c, h.Log, err)
		}
		resp.Membership = &mv
	}
	if id.Can(auth.PermViewInventory) {
		items, err := h.Inventory.PendingReorders(ctx)
		if err != nil {
			return respondError(c, h.Log, err)
		}
		resp.PendingReorder = items
	}
	return c.JSON(http.StatusOK, resp)
}

func bannerText(key string) string {
	if msg, ok := banners[key]; ok {
		return msg
	}
	return key
}
