package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/middleware"
	"github.com/iliyamo/museum-desk/internal/service"
)

// MembershipHandler serves member listings and lifecycle transitions.
type MembershipHandler struct {
	Memberships *service.MembershipService
	Log         *zap.Logger
}

func NewMembershipHandler(memberships *service.MembershipService, log *zap.Logger) *MembershipHandler {
	return &MembershipHandler{Memberships: memberships, Log: log}
}

type membershipChangeReq struct {
	Tier string `json:"membership_type" form:"membership_type"`
}

// Own returns the caller's membership with its derived status.
func (h *MembershipHandler) Own(c echo.Context) error {
	memberID, ok := identity(c).MemberID()
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no membership linked to this account"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	mv, err := h.Memberships.Get(ctx, memberID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, mv)
}

func (h *MembershipHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	members, err := h.Memberships.List(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"members": members})
}

// Change applies renew, upgrade, downgrade or cancel to one member.
func (h *MembershipHandler) Change(c echo.Context) error {
	memberID, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	change, ok := service.ParseChange(c.Param("action"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown membership action"})
	}
	if err := service.Authorize(identity(c), memberID); err != nil {
		return middleware.Deny(c)
	}
	var req membershipChangeReq
	if ok, err := bind(c, &req); !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	mv, err := h.Memberships.Apply(ctx, actor(c), memberID, change, req.Tier)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if middleware.WantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, "/dashboard?notice=membership_updated")
	}
	return c.JSON(http.StatusOK, mv)
}
