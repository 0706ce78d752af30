package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/museum-desk/internal/model"
)

// ActivityRepo appends to `activity_log`. Rows are never updated or deleted.
type ActivityRepo struct{ db *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{db: db} }

func (r *ActivityRepo) Append(ctx context.Context, e *model.ActivityLogEntry) error {
	const q = `INSERT INTO activity_log (user_id, action, table_name, record_id, description, ip_address, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, nullID(e.UserID), e.Action, e.TableName, nullID(e.RecordID),
		e.Description, e.IPAddress, e.CreatedAt.UTC())
	if err != nil {
		return err
	}
	e.ID, err = lastID(res)
	return err
}

// Recent returns the newest entries first.
func (r *ActivityRepo) Recent(ctx context.Context, since time.Time, limit int) ([]model.ActivityLogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT log_id, user_id, action, table_name, record_id, description, ip_address, created_at
		 FROM activity_log WHERE created_at >= ? ORDER BY created_at DESC, log_id DESC LIMIT ?`, since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ActivityLogEntry
	for rows.Next() {
		var (
			e            model.ActivityLogEntry
			user, record sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &user, &e.Action, &e.TableName, &record, &e.Description, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.UserID, e.RecordID = idPtr(user), idPtr(record)
		out = append(out, e)
	}
	return out, rows.Err()
}
