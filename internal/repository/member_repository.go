package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/museum-desk/internal/model"
)

// MemberRepo reads and writes the `members` table.
type MemberRepo struct{ db *sql.DB }

func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{db: db} }

const memberColumns = `member_id, first_name, last_name, email, phone, membership_type, start_date, expiration_date, auto_renew`

func scanMember(s scanner) (model.Member, error) {
	var m model.Member
	err := s.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.Tier, &m.StartDate, &m.ExpirationDate, &m.AutoRenew)
	return m, err
}

// CreateTx inserts a member profile inside the caller's transaction.
func (r *MemberRepo) CreateTx(ctx context.Context, tx *sql.Tx, m *model.Member) error {
	const q = `INSERT INTO members (first_name, last_name, email, phone, membership_type, start_date, expiration_date, auto_renew)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, m.FirstName, m.LastName, m.Email, m.Phone, string(m.Tier),
		model.DateOnly(m.StartDate), model.DateOnly(m.ExpirationDate), m.AutoRenew)
	if err != nil {
		return err
	}
	m.ID, err = lastID(res)
	return err
}

func (r *MemberRepo) GetByID(ctx context.Context, id uint64) (model.Member, error) {
	return getMember(ctx, r.db, id)
}

// GetByIDTx reads a member inside a transaction, e.g. to price a sale.
func (r *MemberRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Member, error) {
	return getMember(ctx, tx, id)
}

func getMember(ctx context.Context, q DBTX, id uint64) (model.Member, error) {
	row := q.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE member_id = ?`, id)
	m, err := scanMember(row)
	return m, notFound(err)
}

// List returns all members, soonest expiration first.
func (r *MemberRepo) List(ctx context.Context) ([]model.Member, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+memberColumns+` FROM members ORDER BY expiration_date, last_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateTerm rewrites tier, dates and auto-renew in a single statement.
func (r *MemberRepo) UpdateTerm(ctx context.Context, id uint64, tier model.MembershipTier, start, expiration time.Time, autoRenew bool) error {
	const q = `UPDATE members SET membership_type = ?, start_date = ?, expiration_date = ?, auto_renew = ? WHERE member_id = ?`
	_, err := r.db.ExecContext(ctx, q, string(tier), model.DateOnly(start), model.DateOnly(expiration), autoRenew, id)
	return err
}
