package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/museum-desk/internal/model"
)

// ReportRepo runs the read-only report queries. Every report returns its
// cells already formatted as strings.
type ReportRepo struct{ db *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// Sales summarizes sales per day in [from, to).
func (r *ReportRepo) Sales(ctx context.Context, from, to time.Time) (model.Report, error) {
	const q = `SELECT DATE_FORMAT(sale_date, '%Y-%m-%d') AS day, COUNT(*),
	       COALESCE(SUM(discount_amount), 0), COALESCE(SUM(total_amount), 0)
	FROM sales
	WHERE sale_date >= ? AND sale_date < ?
	GROUP BY day
	ORDER BY day`
	return r.table(ctx, "sales", []string{"Date", "Sales", "Discounts", "Revenue"}, q, from.UTC(), to.UTC())
}

// Tickets reports sold and checked-in seats for events dated in [from, to).
func (r *ReportRepo) Tickets(ctx context.Context, from, to time.Time) (model.Report, error) {
	const q = `SELECT e.name, DATE_FORMAT(e.event_date, '%Y-%m-%d %H:%i'), e.capacity,
	       COALESCE(SUM(t.quantity), 0),
	       e.capacity - COALESCE(SUM(t.quantity), 0),
	       COALESCE(SUM(CASE WHEN t.checked_in = 1 THEN t.quantity ELSE 0 END), 0)
	FROM events e
	LEFT JOIN tickets t ON t.event_id = e.event_id
	WHERE e.event_date >= ? AND e.event_date < ?
	GROUP BY e.event_id
	ORDER BY e.event_date`
	return r.table(ctx, "tickets", []string{"Event", "Date", "Capacity", "Sold", "Remaining", "Checked In"}, q, from.UTC(), to.UTC())
}

// Members lists every membership with its status derived as of today.
func (r *ReportRepo) Members(ctx context.Context, today time.Time) (model.Report, error) {
	const q = `SELECT member_id, CONCAT(first_name, ' ', last_name), email, membership_type,
	       DATE_FORMAT(start_date, '%Y-%m-%d'), DATE_FORMAT(expiration_date, '%Y-%m-%d'),
	       CASE WHEN auto_renew = 1 THEN 'yes' ELSE 'no' END,
	       CASE WHEN expiration_date < ? THEN 'expired'
	            WHEN expiration_date <= DATE_ADD(?, INTERVAL 30 DAY) THEN 'expiring_soon'
	            ELSE 'active' END
	FROM members
	ORDER BY expiration_date, last_name`
	day := model.DateOnly(today)
	return r.table(ctx, "members",
		[]string{"Member ID", "Name", "Email", "Tier", "Start", "Expiration", "Auto Renew", "Status"}, q, day, day)
}

// Inventory lists stock levels and any pending auto-reorder.
func (r *ReportRepo) Inventory(ctx context.Context) (model.Report, error) {
	const q = `SELECT item_name, category, price, quantity_in_stock, reorder_threshold, pending_reorder_quantity,
	       COALESCE(DATE_FORMAT(last_reorder_date, '%Y-%m-%d'), '')
	FROM shop_items
	ORDER BY category, item_name`
	return r.table(ctx, "inventory",
		[]string{"Item", "Category", "Price", "Stock", "Threshold", "Pending Reorder", "Last Reorder"}, q)
}

// Activity returns the audit trail for [from, to), newest first.
func (r *ReportRepo) Activity(ctx context.Context, from, to time.Time) (model.Report, error) {
	const q = `SELECT DATE_FORMAT(a.created_at, '%Y-%m-%d %H:%i:%s'), COALESCE(u.username, ''), a.action,
	       a.table_name, COALESCE(a.record_id, ''), a.description, a.ip_address
	FROM activity_log a
	LEFT JOIN users u ON u.user_id = a.user_id
	WHERE a.created_at >= ? AND a.created_at < ?
	ORDER BY a.created_at DESC, a.log_id DESC`
	return r.table(ctx, "activity",
		[]string{"When", "User", "Action", "Table", "Record", "Description", "IP"}, q, from.UTC(), to.UTC())
}

func (r *ReportRepo) table(ctx context.Context, name string, columns []string, q string, args ...any) (model.Report, error) {
	rep := model.Report{Name: name, Columns: columns, Rows: [][]string{}}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return rep, err
	}
	defer rows.Close()

	cells := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return rep, err
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = c.String
		}
		rep.Rows = append(rep.Rows, row)
	}
	return rep, rows.Err()
}
