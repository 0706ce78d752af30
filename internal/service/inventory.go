package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/museum-desk/internal/database"
	"github.com/iliyamo/museum-desk/internal/model"
	"github.com/iliyamo/museum-desk/internal/repository"
)

// ReorderAction is the staff decision on an automatic reorder.
type ReorderAction string

const (
	ReorderConfirm ReorderAction = "confirm"
	ReorderReject  ReorderAction = "reject"
)

// RejectedStock is the stock left after backing a pending reorder out,
// floored at zero.
func RejectedStock(stock, pending int) int {
	if n := stock - pending; n > 0 {
		return n
	}
	return 0
}

// NewItem is the input of InventoryService.CreateItem.
type NewItem struct {
	Name             string
	Description      string
	Category         string
	Price            decimal.Decimal
	QuantityInStock  int
	ReorderThreshold int
	ReorderQuantity  int
}

// InventoryService manages shop items and auto-reorder decisions.
type InventoryService struct {
	Deps
	items *repository.ShopItemRepo
}

func NewInventoryService(d Deps) *InventoryService {
	d = d.withDefaults()
	return &InventoryService{Deps: d, items: repository.NewShopItemRepo(d.DB)}
}

func (s *InventoryService) List(ctx context.Context) ([]model.ShopItem, error) {
	return s.items.List(ctx)
}

// PendingReorders lists items the reorder trigger has flagged.
func (s *InventoryService) PendingReorders(ctx context.Context) ([]model.ShopItem, error) {
	return s.items.ListPendingReorder(ctx)
}

func (s *InventoryService) CreateItem(ctx context.Context, actor Actor, in NewItem) (model.ShopItem, error) {
	if err := required([2]string{"item_name", in.Name}); err != nil {
		return model.ShopItem{}, err
	}
	if !in.Price.IsPositive() {
		return model.ShopItem{}, invalid("price", "must be greater than zero")
	}
	if in.QuantityInStock < 0 || in.ReorderThreshold < 0 || in.ReorderQuantity < 0 {
		return model.ShopItem{}, invalid("quantity_in_stock", "stock and reorder values cannot be negative")
	}
	it := model.ShopItem{
		Name:             strings.TrimSpace(in.Name),
		Description:      strings.TrimSpace(in.Description),
		Category:         strings.TrimSpace(in.Category),
		Price:            in.Price.Round(2),
		QuantityInStock:  in.QuantityInStock,
		ReorderThreshold: in.ReorderThreshold,
		ReorderQuantity:  in.ReorderQuantity,
	}
	if err := s.items.Create(ctx, &it); err != nil {
		return model.ShopItem{}, err
	}
	s.Activity.Record(ctx, actor, model.ActionCreateItem, "shop_items", it.ID,
		fmt.Sprintf("Created item %q at %s", it.Name, it.Price.StringFixed(2)))
	return it, nil
}

// ResolveReorder confirms or rejects a pending automatic reorder. Confirm
// keeps the added stock; reject subtracts the pending quantity back out.
// Both clear the pending flag and quantity. It returns a short notice for
// the dashboard banner.
func (s *InventoryService) ResolveReorder(ctx context.Context, actor Actor, itemID uint64, action ReorderAction) (string, error) {
	switch action {
	case ReorderConfirm:
		if err := s.items.ConfirmReorder(ctx, itemID); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return "", ErrNoPendingReorder
			}
			return "", err
		}
		s.Activity.Record(ctx, actor, model.ActionReorderConfirmed, "shop_items", itemID, "Auto-reorder confirmed")
		return "reorder_confirmed", nil

	case ReorderReject:
		var before, after, pending int
		err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
			stock, p, flagged, err := s.items.LockReorderTx(ctx, tx, itemID)
			if err != nil {
				return fromRepo(err)
			}
			if !flagged {
				return ErrNoPendingReorder
			}
			before, pending, after = stock, p, RejectedStock(stock, p)
			return s.items.RejectReorderTx(ctx, tx, itemID, after)
		})
		if err != nil {
			return "", err
		}
		s.Activity.Record(ctx, actor, model.ActionReorderRejected, "shop_items", itemID,
			fmt.Sprintf("Auto-reorder rejected: stock %d - pending %d = %d", before, pending, after))
		return "reorder_rejected", nil
	}
	return "", invalid("action", "must be confirm or reject")
}
