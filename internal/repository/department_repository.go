package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/museum-desk/internal/model"
)

// DepartmentRepo reads and writes the `departments` table.
type DepartmentRepo struct{ db *sql.DB }

func NewDepartmentRepo(db *sql.DB) *DepartmentRepo { return &DepartmentRepo{db: db} }

func scanDepartment(s scanner) (model.Department, error) {
	var (
		d   model.Department
		mgr sql.NullInt64
	)
	if err := s.Scan(&d.ID, &d.Name, &d.Location, &mgr); err != nil {
		return model.Department{}, err
	}
	d.ManagerID = idPtr(mgr)
	return d, nil
}

// Create inserts a department without a manager. Names are unique.
func (r *DepartmentRepo) Create(ctx context.Context, d *model.Department) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO departments (name, location) VALUES (?, ?)`, d.Name, d.Location)
	if err != nil {
		return duplicate(err)
	}
	d.ID, err = lastID(res)
	return err
}

func (r *DepartmentRepo) List(ctx context.Context) ([]model.Department, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT department_id, name, location, manager_id FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// LockTx reads a department and holds its row until the transaction ends.
func (r *DepartmentRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Department, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT department_id, name, location, manager_id FROM departments WHERE department_id = ? FOR UPDATE`, id)
	d, err := scanDepartment(row)
	return d, notFound(err)
}

// SetManagerTx stores or clears (nil) the department manager.
func (r *DepartmentRepo) SetManagerTx(ctx context.Context, tx *sql.Tx, id uint64, managerID *uint64) error {
	_, err := tx.ExecContext(ctx, `UPDATE departments SET manager_id = ? WHERE department_id = ?`, nullID(managerID), id)
	return err
}
