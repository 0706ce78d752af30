package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/museum-desk/internal/auth"
	"github.com/iliyamo/museum-desk/internal/model"
)

// AccountRepo reads and writes the `users` table.
type AccountRepo struct{ db *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{db: db} }

const accountColumns = `user_id, username, email, password_hash, user_type, linked_id, is_active, created_at, last_login`

func scanAccount(s scanner) (model.Account, error) {
	var (
		a      model.Account
		linked sql.NullInt64
		last   sql.NullTime
	)
	if err := s.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &linked, &a.IsActive, &a.CreatedAt, &last); err != nil {
		return model.Account{}, err
	}
	a.Profile = model.ProfileFromColumn(auth.Role(a.Role).ProfileKind(), linked)
	a.LastLogin = timePtr(last)
	return a, nil
}

// CreateTx inserts an account inside the caller's transaction and fills
// in its ID. A taken username yields ErrDuplicate.
func (r *AccountRepo) CreateTx(ctx context.Context, tx *sql.Tx, a *model.Account) error {
	const q = `INSERT INTO users (username, email, password_hash, user_type, linked_id, is_active) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		strings.TrimSpace(a.Username), strings.TrimSpace(a.Email), a.PasswordHash, a.Role, a.Profile.Column(), a.IsActive)
	if err != nil {
		return duplicate(err)
	}
	a.ID, err = lastID(res)
	return err
}

// GetByUsername fetches an account by its login handle.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM users WHERE username = ? LIMIT 1`, strings.TrimSpace(username))
	a, err := scanAccount(row)
	return a, notFound(err)
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM users WHERE user_id = ? LIMIT 1`, id)
	a, err := scanAccount(row)
	return a, notFound(err)
}

// List returns every account ordered by handle.
func (r *AccountRepo) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetActive toggles is_active. MySQL reports zero affected rows for an
// unchanged value, so existence is checked separately.
func (r *AccountRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE user_id = ?`, id).Scan(&one); err != nil {
		return notFound(err)
	}
	_, err := r.db.ExecContext(ctx, `UPDATE users SET is_active = ? WHERE user_id = ?`, active, id)
	return err
}

// TouchLogin records a successful login.
func (r *AccountRepo) TouchLogin(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE user_id = ?`, at.UTC(), id)
	return err
}

// UpdatePasswordHash replaces the stored hash, used to upgrade legacy digests.
func (r *AccountRepo) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE user_id = ?`, hash, id)
	return err
}
