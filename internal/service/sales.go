package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/database"
	"github.com/iliyamo/museum-desk/internal/metrics"
	"github.com/iliyamo/museum-desk/internal/model"
	"github.com/iliyamo/museum-desk/internal/queue"
	"github.com/iliyamo/museum-desk/internal/repository"
)

// MemberDiscountRate applies to sales attributed to a non-expired member.
var MemberDiscountRate = decimal.RequireFromString("0.10")

// CartLine is one cart entry. UnitPrice is what the till displayed; the
// sale is always priced from shop_items.
type CartLine struct {
	ItemID    uint64
	Quantity  int
	UnitPrice decimal.Decimal
}

// Checkout is the input of ProcessSale.
type Checkout struct {
	Lines         []CartLine
	MemberID      *uint64
	PaymentMethod model.PaymentMethod
}

// Totals are rounded to cents.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals prices a cart. The discount is applied only when
// memberValid is true, i.e. the attributed member's expiration date is on
// or after the sale date.
func ComputeTotals(lines []CartLine, memberValid bool) Totals {
	sub := decimal.Zero
	for _, l := range lines {
		sub = sub.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	sub = sub.Round(2)
	disc := decimal.Zero
	if memberValid {
		disc = sub.Mul(MemberDiscountRate).Round(2)
	}
	return Totals{Subtotal: sub, Discount: disc, Total: sub.Sub(disc)}
}

// SalesService processes gift-shop checkouts.
type SalesService struct {
	Deps
	sales   *repository.SaleRepo
	items   *repository.ShopItemRepo
	members *repository.MemberRepo
}

func NewSalesService(d Deps) *SalesService {
	d = d.withDefaults()
	return &SalesService{
		Deps:    d,
		sales:   repository.NewSaleRepo(d.DB),
		items:   repository.NewShopItemRepo(d.DB),
		members: repository.NewMemberRepo(d.DB),
	}
}

func (s *SalesService) Get(ctx context.Context, id uint64) (model.Sale, error) {
	sale, err := s.sales.GetByID(ctx, id)
	return sale, fromRepo(err)
}

func validateCheckout(in Checkout) error {
	if len(in.Lines) == 0 {
		return ErrEmptyCart
	}
	if !model.ValidPaymentMethod(in.PaymentMethod) {
		return invalid("payment_method", "must be one of cash, credit, debit, mobile")
	}
	for i, l := range in.Lines {
		if l.ItemID == 0 {
			return invalid(fmt.Sprintf("items[%d].item_id", i), "is required")
		}
		if l.Quantity < 1 {
			return invalid(fmt.Sprintf("items[%d].quantity", i), "must be at least 1")
		}
	}
	return nil
}

// ProcessSale records a sale in one unit of work: every item row is locked
// once and priced, stock is checked against the cart total for that item,
// then the header, the lines and the stock decrements are written. Any
// failure rolls back the whole sale.
func (s *SalesService) ProcessSale(ctx context.Context, actor Actor, in Checkout) (model.Sale, error) {
	if err := validateCheckout(in); err != nil {
		return model.Sale{}, err
	}
	now := s.Now()
	sale := model.Sale{
		SaleDate:      now.UTC(),
		MemberID:      in.MemberID,
		PaymentMethod: in.PaymentMethod,
		ProcessedBy:   actor.userID(),
	}
	var totals Totals

	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		memberValid := false
		if in.MemberID != nil {
			m, err := s.members.GetByIDTx(ctx, tx, *in.MemberID)
			if err != nil {
				return fromRepo(err)
			}
			memberValid = m.ValidOn(now)
		}

		// An item may appear on several lines; stock covers their sum.
		type lockedItem struct {
			name  string
			price decimal.Decimal
		}
		wanted := make(map[uint64]int, len(in.Lines))
		for _, l := range in.Lines {
			wanted[l.ItemID] += l.Quantity
		}
		locked := make(map[uint64]lockedItem, len(wanted))
		priced := make([]CartLine, len(in.Lines))
		names := make([]string, len(in.Lines))
		for i, l := range in.Lines {
			it, ok := locked[l.ItemID]
			if !ok {
				name, price, stock, err := s.items.LockForSaleTx(ctx, tx, l.ItemID)
				if err != nil {
					return fromRepo(err)
				}
				if stock < wanted[l.ItemID] {
					return &StockError{ItemID: l.ItemID, Name: name, Available: stock}
				}
				it = lockedItem{name: name, price: price}
				locked[l.ItemID] = it
			}
			priced[i] = CartLine{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: it.price}
			names[i] = it.name
		}

		totals = ComputeTotals(priced, memberValid)
		sale.TotalAmount = totals.Total
		sale.DiscountAmount = totals.Discount
		if err := s.sales.CreateTx(ctx, tx, &sale); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		for i, l := range priced {
			line := model.SaleLine{
				SaleID:      sale.ID,
				ItemID:      l.ItemID,
				ItemName:    names[i],
				Quantity:    l.Quantity,
				PriceAtSale: l.UnitPrice,
				Subtotal:    l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2),
			}
			if err := s.sales.AddLineTx(ctx, tx, &line); err != nil {
				return fmt.Errorf("insert sale line: %w", err)
			}
			if err := s.items.DecrementStockTx(ctx, tx, l.ItemID, l.Quantity); err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			sale.Lines = append(sale.Lines, line)
		}
		return nil
	})
	if err != nil {
		s.Log.Info("sale rolled back", zap.Uint64("processed_by", actor.AccountID), zap.Error(err))
		return model.Sale{}, err
	}

	metrics.SalesTotal.WithLabelValues(string(sale.PaymentMethod)).Inc()
	metrics.SaleAmount.Observe(sale.TotalAmount.InexactFloat64())
	s.Activity.Record(ctx, actor, model.ActionSale, "sales", sale.ID,
		fmt.Sprintf("Sale of %d line(s), total %s (discount %s), paid by %s",
			len(sale.Lines), totals.Total.StringFixed(2), totals.Discount.StringFixed(2), sale.PaymentMethod))
	s.publish(ctx, queue.Event{
		Type:    queue.TypeSaleCompleted,
		ActorID: actor.AccountID,
		Sale: &queue.SaleCompleted{
			SaleID:        sale.ID,
			MemberID:      sale.MemberID,
			Lines:         len(sale.Lines),
			Subtotal:      totals.Subtotal.StringFixed(2),
			Discount:      totals.Discount.StringFixed(2),
			Total:         totals.Total.StringFixed(2),
			PaymentMethod: string(sale.PaymentMethod),
		},
	})
	return sale, nil
}
