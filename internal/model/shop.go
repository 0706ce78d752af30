package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod tags how a sale was paid. The gateway itself is simulated.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
	PaymentMobile PaymentMethod = "mobile"
)

// ValidPaymentMethod reports whether m is one of the accepted tags.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentCredit, PaymentDebit, PaymentMobile:
		return true
	}
	return false
}

// ShopItem is a gift-shop product. The auto-reorder fields are written by
// the database trigger when stock drops below the threshold and cleared
// when staff confirm or reject the reorder.
type ShopItem struct {
	ID                     uint64          `json:"item_id"`                  // shop_items.item_id
	Name                   string          `json:"item_name"`                // shop_items.item_name
	Description            string          `json:"description"`              // shop_items.description
	Category               string          `json:"category"`                 // shop_items.category
	Price                  decimal.Decimal `json:"price"`                    // shop_items.price
	QuantityInStock        int             `json:"quantity_in_stock"`        // shop_items.quantity_in_stock
	ReorderThreshold       int             `json:"reorder_threshold"`        // shop_items.reorder_threshold
	ReorderQuantity        int             `json:"reorder_quantity"`         // shop_items.reorder_quantity
	PendingReorderQuantity int             `json:"pending_reorder_quantity"` // shop_items.pending_reorder_quantity
	LastReorderDate        *time.Time      `json:"last_reorder_date"`        // shop_items.last_reorder_date (nullable)
	AutoReorderPending     bool            `json:"auto_reorder_pending"`     // shop_items.auto_reorder_pending
}

// Sale is a checkout header. It exclusively owns its Lines.
type Sale struct {
	ID             uint64          `json:"sale_id"`         // sales.sale_id
	SaleDate       time.Time       `json:"sale_date"`       // sales.sale_date
	MemberID       *uint64         `json:"member_id"`       // sales.member_id (nullable)
	VisitorID      *uint64         `json:"visitor_id"`      // sales.visitor_id (nullable)
	TotalAmount    decimal.Decimal `json:"total_amount"`    // sales.total_amount
	DiscountAmount decimal.Decimal `json:"discount_amount"` // sales.discount_amount
	PaymentMethod  PaymentMethod   `json:"payment_method"`  // sales.payment_method
	ProcessedBy    *uint64         `json:"processed_by"`    // sales.processed_by (nullable)
	Lines          []SaleLine      `json:"lines"`
}

// SaleLine is one row of `sale_items`.
type SaleLine struct {
	ID          uint64          `json:"sale_item_id"`  // sale_items.sale_item_id
	SaleID      uint64          `json:"sale_id"`       // sale_items.sale_id
	ItemID      uint64          `json:"item_id"`       // sale_items.item_id
	ItemName    string          `json:"item_name"`     // shop_items.item_name (joined)
	Quantity    int             `json:"quantity"`      // sale_items.quantity
	PriceAtSale decimal.Decimal `json:"price_at_sale"` // sale_items.price_at_sale
	Subtotal    decimal.Decimal `json:"subtotal"`      // sale_items.subtotal
}
