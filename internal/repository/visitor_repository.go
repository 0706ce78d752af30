package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/museum-desk/internal/model"
)

// VisitorRepo writes the `visitors` table. Visitors are only ever created
// together with the ticket or sale they purchase.
type VisitorRepo struct{}

func NewVisitorRepo() *VisitorRepo { return &VisitorRepo{} }

func (r *VisitorRepo) CreateTx(ctx context.Context, tx *sql.Tx, v *model.Visitor) error {
	const q = `INSERT INTO visitors (first_name, last_name, email, phone) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, v.FirstName, v.LastName, v.Email, v.Phone)
	if err != nil {
		return err
	}
	v.ID, err = lastID(res)
	return err
}
