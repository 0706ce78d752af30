package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/museum-desk/internal/model"
)

// SaleRepo reads and writes `sales` and its owned `sale_items` lines.
type SaleRepo struct{ db *sql.DB }

func NewSaleRepo(db *sql.DB) *SaleRepo { return &SaleRepo{db: db} }

// CreateTx inserts the sale header and fills in its ID.
func (r *SaleRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Sale) error {
	const q = `INSERT INTO sales (sale_date, member_id, visitor_id, total_amount, discount_amount, payment_method, processed_by)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.SaleDate.UTC(), nullID(s.MemberID), nullID(s.VisitorID),
		s.TotalAmount, s.DiscountAmount, string(s.PaymentMethod), nullID(s.ProcessedBy))
	if err != nil {
		return err
	}
	s.ID, err = lastID(res)
	return err
}

// AddLineTx inserts one sale line.
func (r *SaleRepo) AddLineTx(ctx context.Context, tx *sql.Tx, l *model.SaleLine) error {
	const q = `INSERT INTO sale_items (sale_id, item_id, quantity, price_at_sale, subtotal) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, l.SaleID, l.ItemID, l.Quantity, l.PriceAtSale, l.Subtotal)
	if err != nil {
		return err
	}
	l.ID, err = lastID(res)
	return err
}

// GetByID loads a sale with its lines.
func (r *SaleRepo) GetByID(ctx context.Context, id uint64) (model.Sale, error) {
	var (
		s                   model.Sale
		member, visitor, by sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT sale_id, sale_date, member_id, visitor_id, total_amount, discount_amount, payment_method, processed_by
		 FROM sales WHERE sale_id = ?`, id).
		Scan(&s.ID, &s.SaleDate, &member, &visitor, &s.TotalAmount, &s.DiscountAmount, &s.PaymentMethod, &by)
	if err != nil {
		return model.Sale{}, notFound(err)
	}
	s.MemberID, s.VisitorID, s.ProcessedBy = idPtr(member), idPtr(visitor), idPtr(by)

	rows, err := r.db.QueryContext(ctx,
		`SELECT si.sale_item_id, si.sale_id, si.item_id, i.item_name, si.quantity, si.price_at_sale, si.subtotal
		 FROM sale_items si JOIN shop_items i ON i.item_id = si.item_id
		 WHERE si.sale_id = ? ORDER BY si.sale_item_id`, id)
	if err != nil {
		return model.Sale{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var l model.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ItemID, &l.ItemName, &l.Quantity, &l.PriceAtSale, &l.Subtotal); err != nil {
			return model.Sale{}, err
		}
		s.Lines = append(s.Lines, l)
	}
	return s, rows.Err()
}
