package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/middleware"
	"github.com/iliyamo/museum-desk/internal/model"
	"github.com/iliyamo/museum-desk/internal/service"
)

// ShopHandler serves the gift shop: inventory, checkout and reorders.
type ShopHandler struct {
	Inventory *service.InventoryService
	Sales     *service.SalesService
	Log       *zap.Logger
}

func NewShopHandler(inventory *service.InventoryService, sales *service.SalesService, log *zap.Logger) *ShopHandler {
	return &ShopHandler{Inventory: inventory, Sales: sales, Log: log}
}

type itemReq struct {
	Name             string          `json:"item_name" form:"item_name" validate:"required,max=100"`
	Description      string          `json:"description" form:"description"`
	Category         string          `json:"category" form:"category"`
	Price            decimal.Decimal `json:"price" form:"price" validate:"gt=0"`
	QuantityInStock  int             `json:"quantity_in_stock" form:"quantity_in_stock" validate:"gte=0"`
	ReorderThreshold int             `json:"reorder_threshold" form:"reorder_threshold" validate:"gte=0"`
	ReorderQuantity  int             `json:"reorder_quantity" form:"reorder_quantity" validate:"gte=0"`
}

type cartLineReq struct {
	ItemID    uint64          `json:"item_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gte=1"`
	UnitPrice decimal.Decimal `json:"price"`
}

// checkoutReq is the JSON cart posted by the till.
type checkoutReq struct {
	Items         []cartLineReq `json:"items" validate:"dive"`
	MemberID      *uint64       `json:"member_id"`
	PaymentMethod string        `json:"payment_method" validate:"required"`
}

type reorderReq struct {
	Action string `json:"action" form:"action" validate:"required,oneof=confirm reject"`
}

func (h *ShopHandler) ListItems(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := h.Inventory.List(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *ShopHandler) CreateItem(c echo.Context) error {
	var req itemReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	it, err := h.Inventory.CreateItem(ctx, actor(c), service.NewItem{
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		Price:            req.Price,
		QuantityInStock:  req.QuantityInStock,
		ReorderThreshold: req.ReorderThreshold,
		ReorderQuantity:  req.ReorderQuantity,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, it)
}

// Checkout processes a cart as one sale. An empty cart is rejected before
// any database work.
func (h *ShopHandler) Checkout(c echo.Context) error {
	var req checkoutReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	in := service.Checkout{
		MemberID:      req.MemberID,
		PaymentMethod: model.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
		Lines:         make([]service.CartLine, 0, len(req.Items)),
	}
	for _, l := range req.Items {
		in.Lines = append(in.Lines, service.CartLine{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	sale, err := h.Sales.ProcessSale(ctx, actor(c), in)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, sale)
}

// GetSale is the JSON detail endpoint for one sale and its lines.
func (h *ShopHandler) GetSale(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	sale, err := h.Sales.Get(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, sale)
}

// ResolveReorder confirms or rejects a pending automatic reorder.
func (h *ShopHandler) ResolveReorder(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	var req reorderReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	notice, err := h.Inventory.ResolveReorder(ctx, actor(c), id, service.ReorderAction(req.Action))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if middleware.WantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, "/dashboard?notice="+notice)
	}
	return c.JSON(http.StatusOK, echo.Map{"item_id": id, "notice": notice})
}
