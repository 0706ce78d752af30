package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/museum-desk/internal/model"
)

// StaffRepo reads and writes the `staff` table.
type StaffRepo struct{ db *sql.DB }

func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{db: db} }

const staffColumns = `staff_id, department_id, first_name, last_name, email, title, hire_date, ssn, supervisor_id`

func scanStaff(s scanner) (model.Staff, error) {
	var (
		st         model.Staff
		dept, supv sql.NullInt64
	)
	if err := s.Scan(&st.ID, &dept, &st.FirstName, &st.LastName, &st.Email, &st.Title, &st.HireDate, &st.NationalID, &supv); err != nil {
		return model.Staff{}, err
	}
	st.DepartmentID = idPtr(dept)
	st.SupervisorID = idPtr(supv)
	return st, nil
}

// CreateTx inserts a staff profile inside the caller's transaction.
func (r *StaffRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Staff) error {
	const q = `INSERT INTO staff (department_id, first_name, last_name, email, title, hire_date, ssn, supervisor_id)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, nullID(s.DepartmentID), s.FirstName, s.LastName, s.Email, s.Title,
		model.DateOnly(s.HireDate), s.NationalID, nullID(s.SupervisorID))
	if err != nil {
		return err
	}
	s.ID, err = lastID(res)
	return err
}

func (r *StaffRepo) GetByID(ctx context.Context, id uint64) (model.Staff, error) {
	return getStaff(ctx, r.db, id)
}

func (r *StaffRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Staff, error) {
	return getStaff(ctx, tx, id)
}

func getStaff(ctx context.Context, q DBTX, id uint64) (model.Staff, error) {
	row := q.QueryRowContext(ctx, `SELECT `+staffColumns+` FROM staff WHERE staff_id = ?`, id)
	s, err := scanStaff(row)
	return s, notFound(err)
}

// ListByDepartment returns the staff of one department.
func (r *StaffRepo) ListByDepartment(ctx context.Context, departmentID uint64) ([]model.Staff, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE department_id = ? ORDER BY last_name, first_name`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
