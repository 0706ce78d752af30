package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/museum-desk/internal/model"
)

// EventRepo reads and writes the `events` table.
type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// eventSelect joins the running ticket total so callers see sold seats.
const eventSelect = `SELECT e.event_id, e.name, COALESCE(e.description, ''), e.event_date, e.location, e.capacity,
       COALESCE(SUM(t.quantity), 0)
FROM events e
LEFT JOIN tickets t ON t.event_id = e.event_id`

func scanEvent(s scanner) (model.Event, error) {
	var e model.Event
	err := s.Scan(&e.ID, &e.Name, &e.Description, &e.EventDate, &e.Location, &e.Capacity, &e.TicketsSold)
	return e, err
}

// Create inserts an event and fills in its ID.
func (r *EventRepo) Create(ctx context.Context, e *model.Event, createdBy uint64) error {
	const q = `INSERT INTO events (name, description, event_date, location, capacity, created_by) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.Name, e.Description, e.EventDate.UTC(), e.Location, e.Capacity, createdBy)
	if err != nil {
		return err
	}
	e.ID, err = lastID(res)
	return err
}

// List returns events ordered by date with their sold totals.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, eventSelect+` GROUP BY e.event_id ORDER BY e.event_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	row := r.db.QueryRowContext(ctx, eventSelect+` WHERE e.event_id = ? GROUP BY e.event_id`, id)
	e, err := scanEvent(row)
	return e, notFound(err)
}

// LockCapacityTx returns the event's capacity and locks the event row so
// concurrent purchases for the same event are serialized.
func (r *EventRepo) LockCapacityTx(ctx context.Context, tx *sql.Tx, id uint64) (int, error) {
	var capacity int
	err := tx.QueryRowContext(ctx, `SELECT capacity FROM events WHERE event_id = ? FOR UPDATE`, id).Scan(&capacity)
	return capacity, notFound(err)
}

// SoldTx sums ticket quantities already sold for the event.
func (r *EventRepo) SoldTx(ctx context.Context, tx *sql.Tx, id uint64) (int, error) {
	var sold int
	err := tx.QueryRowContext(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM tickets WHERE event_id = ?`, id).Scan(&sold)
	return sold, err
}
