package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/museum-desk/internal/model"
)

// ShopItemRepo reads and writes the `shop_items` table.
type ShopItemRepo struct{ db *sql.DB }

func NewShopItemRepo(db *sql.DB) *ShopItemRepo { return &ShopItemRepo{db: db} }

const shopItemColumns = `item_id, item_name, COALESCE(description, ''), category, price, quantity_in_stock,
       reorder_threshold, reorder_quantity, pending_reorder_quantity, last_reorder_date, auto_reorder_pending`

func scanShopItem(s scanner) (model.ShopItem, error) {
	var (
		it   model.ShopItem
		last sql.NullTime
	)
	if err := s.Scan(&it.ID, &it.Name, &it.Description, &it.Category, &it.Price, &it.QuantityInStock,
		&it.ReorderThreshold, &it.ReorderQuantity, &it.PendingReorderQuantity, &last, &it.AutoReorderPending); err != nil {
		return model.ShopItem{}, err
	}
	it.LastReorderDate = timePtr(last)
	return it, nil
}

func (r *ShopItemRepo) Create(ctx context.Context, it *model.ShopItem) error {
	const q = `INSERT INTO shop_items (item_name, description, category, price, quantity_in_stock, reorder_threshold, reorder_quantity)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, it.Name, it.Description, it.Category, it.Price,
		it.QuantityInStock, it.ReorderThreshold, it.ReorderQuantity)
	if err != nil {
		return err
	}
	it.ID, err = lastID(res)
	return err
}

func (r *ShopItemRepo) GetByID(ctx context.Context, id uint64) (model.ShopItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+shopItemColumns+` FROM shop_items WHERE item_id = ?`, id)
	it, err := scanShopItem(row)
	return it, notFound(err)
}

// List returns the catalogue ordered by category and name.
func (r *ShopItemRepo) List(ctx context.Context) ([]model.ShopItem, error) {
	return r.list(ctx, `SELECT `+shopItemColumns+` FROM shop_items ORDER BY category, item_name`)
}

// ListPendingReorder returns items flagged by the auto-reorder trigger and
// awaiting staff confirmation.
func (r *ShopItemRepo) ListPendingReorder(ctx context.Context) ([]model.ShopItem, error) {
	return r.list(ctx, `SELECT `+shopItemColumns+` FROM shop_items WHERE auto_reorder_pending = 1 ORDER BY last_reorder_date`)
}

func (r *ShopItemRepo) list(ctx context.Context, q string) ([]model.ShopItem, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ShopItem
	for rows.Next() {
		it, err := scanShopItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// LockForSaleTx reads name, price and stock of an item and locks its row
// until the sale commits.
func (r *ShopItemRepo) LockForSaleTx(ctx context.Context, tx *sql.Tx, id uint64) (name string, price decimal.Decimal, stock int, err error) {
	err = tx.QueryRowContext(ctx,
		`SELECT item_name, price, quantity_in_stock FROM shop_items WHERE item_id = ? FOR UPDATE`, id).
		Scan(&name, &price, &stock)
	return name, price, stock, notFound(err)
}

// DecrementStockTx removes sold units from stock.
func (r *ShopItemRepo) DecrementStockTx(ctx context.Context, tx *sql.Tx, id uint64, qty int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE shop_items SET quantity_in_stock = quantity_in_stock - ? WHERE item_id = ?`, qty, id)
	return err
}

// ConfirmReorder keeps the received stock and clears the pending flag.
// It returns ErrConflict when no reorder is pending for the item.
func (r *ShopItemRepo) ConfirmReorder(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shop_items SET auto_reorder_pending = 0, pending_reorder_quantity = 0
		 WHERE item_id = ? AND auto_reorder_pending = 1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// LockReorderTx reads stock and the pending reorder of an item under a
// row lock.
func (r *ShopItemRepo) LockReorderTx(ctx context.Context, tx *sql.Tx, id uint64) (stock, pending int, flagged bool, err error) {
	err = tx.QueryRowContext(ctx,
		`SELECT quantity_in_stock, pending_reorder_quantity, auto_reorder_pending FROM shop_items WHERE item_id = ? FOR UPDATE`, id).
		Scan(&stock, &pending, &flagged)
	return stock, pending, flagged, notFound(err)
}

// RejectReorderTx sets the stock after backing out a rejected reorder and
// clears the pending flag.
func (r *ShopItemRepo) RejectReorderTx(ctx context.Context, tx *sql.Tx, id uint64, stock int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE shop_items SET quantity_in_stock = ?, auto_reorder_pending = 0, pending_reorder_quantity = 0 WHERE item_id = ?`,
		stock, id)
	return err
}
