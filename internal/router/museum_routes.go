package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/museum-desk/internal/auth"
	"github.com/iliyamo/museum-desk/internal/handler"
	mw "github.com/iliyamo/museum-desk/internal/middleware"
)

// RegisterEvents registers event listings, ticket sales and check-in,
// plus the public listing and guest purchase.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, g Guards) {
	e.GET("/public/events", h.List, g.Cache)
	e.POST("/public/events/:id/tickets", h.PublicPurchase, g.RateLimit)

	e.GET("/events", h.List, g.Session, mw.RequirePermission(auth.PermViewEvents))
	e.POST("/events", h.Create, g.Session, mw.RequirePermission(auth.PermManageEvents))
	e.POST("/events/:id/tickets", h.Purchase, g.Session, mw.RequirePermission(auth.PermPurchaseTickets, auth.PermSellTickets))
	e.POST("/tickets/:id/check-in", h.CheckIn, g.Session, mw.RequirePermission(auth.PermCheckInTickets))
}

// RegisterShop registers inventory, checkout and sale detail routes.
func RegisterShop(e *echo.Echo, h *handler.ShopHandler, g Guards) {
	shop := e.Group("/shop", g.Session)
	shop.GET("/items", h.ListItems, mw.RequirePermission(auth.PermViewInventory))
	shop.POST("/items", h.CreateItem, mw.RequirePermission(auth.PermManageInventory))
	shop.POST("/items/:id/reorder", h.ResolveReorder, mw.RequirePermission(auth.PermManageInventory))
	shop.POST("/checkout", h.Checkout, mw.RequirePermission(auth.PermProcessSales))

	e.GET("/api/sales/:id", h.GetSale, g.Session, mw.RequirePermission(auth.PermViewSales))
}

// RegisterMembership registers member views and lifecycle transitions.
// Ownership of the target member is checked in the handler.
func RegisterMembership(e *echo.Echo, h *handler.MembershipHandler, g Guards) {
	e.GET("/membership", h.Own, g.Session, mw.RequirePermission(auth.PermViewOwnMembership))

	members := e.Group("/members", g.Session)
	members.GET("", h.List, mw.RequirePermission(auth.PermViewMembers))
	members.POST("/:id/:action", h.Change, mw.RequirePermission(auth.PermManageMembers, auth.PermManageOwnMembership))
}

// RegisterReports registers the report readers. The per-report permission
// check runs before the cache so a cached body is never served to a
// caller who may not read it.
func RegisterReports(e *echo.Echo, h *handler.ReportHandler, g Guards) {
	e.GET("/reports/:name", h.Show, g.Session, h.Authorize, g.Cache)
}
