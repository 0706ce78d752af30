package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/museum-desk/internal/model"
)

// TicketRepo reads and writes the `tickets` table.
type TicketRepo struct{ db *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = `ticket_id, event_id, member_id, visitor_id, purchase_date, quantity, checked_in, check_in_time`

func scanTicket(s scanner) (model.Ticket, error) {
	var (
		t               model.Ticket
		member, visitor sql.NullInt64
		checkIn         sql.NullTime
	)
	if err := s.Scan(&t.ID, &t.EventID, &member, &visitor, &t.PurchaseDate, &t.Quantity, &t.CheckedIn, &checkIn); err != nil {
		return model.Ticket{}, err
	}
	t.MemberID = idPtr(member)
	t.VisitorID = idPtr(visitor)
	t.CheckInTime = timePtr(checkIn)
	return t, nil
}

// CreateTx inserts a ticket inside the caller's transaction.
func (r *TicketRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error {
	const q = `INSERT INTO tickets (event_id, member_id, visitor_id, purchase_date, quantity, checked_in) VALUES (?, ?, ?, ?, ?, 0)`
	res, err := tx.ExecContext(ctx, q, t.EventID, nullID(t.MemberID), nullID(t.VisitorID), t.PurchaseDate.UTC(), t.Quantity)
	if err != nil {
		return err
	}
	t.ID, err = lastID(res)
	return err
}

func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (model.Ticket, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE ticket_id = ?`, id)
	t, err := scanTicket(row)
	return t, notFound(err)
}

// LockTx reads a ticket and holds its row until the transaction ends.
func (r *TicketRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Ticket, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE ticket_id = ? FOR UPDATE`, id)
	t, err := scanTicket(row)
	return t, notFound(err)
}

// MarkCheckedInTx flips the one-way checked-in flag.
func (r *TicketRepo) MarkCheckedInTx(ctx context.Context, tx *sql.Tx, id uint64, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE tickets SET checked_in = 1, check_in_time = ? WHERE ticket_id = ? AND checked_in = 0`, at.UTC(), id)
	return err
}
