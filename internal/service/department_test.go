package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/museum-desk/internal/model"
)

var (
	deptCols  = []string{"department_id", "name", "location", "manager_id"}
	staffCols = []string{"staff_id", "department_id", "first_name", "last_name", "email", "title", "hire_date", "ssn", "supervisor_id"}
)

func expectDepartmentLock(mock sqlmock.Sqlmock, id int64) {
	mock.ExpectQuery("FROM departments WHERE department_id = \\? FOR UPDATE").WithArgs(id).
		WillReturnRows(sqlmock.NewRows(deptCols).AddRow(id, "Education", "East Wing", nil))
}

func TestAssignManagerFromOtherDepartmentRejected(t *testing.T) {
	f := newFixture(t)
	svc := NewDepartmentService(f.deps)
	staffID := uint64(8)

	f.mock.ExpectBegin()
	expectDepartmentLock(f.mock, 1)
	f.mock.ExpectQuery("FROM staff WHERE staff_id = \\?").WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(staffCols).AddRow(8, 2, "Sam", "Lee", "s@example.com", "Guide", day(2020, 1, 1), "123", nil))
	f.mock.ExpectRollback()

	err := svc.AssignManager(context.Background(), Actor{AccountID: 1}, 1, &staffID)
	assert.ErrorIs(t, err, ErrManagerNotInDepartment)
	f.verify(t)
	assert.Empty(t, f.activity.actions())
}

func TestAssignManagerSameDepartment(t *testing.T) {
	f := newFixture(t)
	svc := NewDepartmentService(f.deps)
	staffID := uint64(8)

	f.mock.ExpectBegin()
	expectDepartmentLock(f.mock, 1)
	f.mock.ExpectQuery("FROM staff WHERE staff_id = \\?").WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(staffCols).AddRow(8, 1, "Sam", "Lee", "s@example.com", "Guide", day(2020, 1, 1), "123", nil))
	f.mock.ExpectExec("UPDATE departments SET manager_id = \\?").WithArgs(int64(8), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()

	require.NoError(t, svc.AssignManager(context.Background(), Actor{AccountID: 1}, 1, &staffID))
	f.verify(t)
	assert.Equal(t, []string{model.ActionAssignManager}, f.activity.actions())
}

func TestAssignManagerClear(t *testing.T) {
	f := newFixture(t)
	svc := NewDepartmentService(f.deps)

	f.mock.ExpectBegin()
	expectDepartmentLock(f.mock, 1)
	f.mock.ExpectExec("UPDATE departments SET manager_id = \\?").WithArgs(nil, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()

	require.NoError(t, svc.AssignManager(context.Background(), Actor{AccountID: 1}, 1, nil))
	f.verify(t)
}

func TestAssignManagerUnknownDepartment(t *testing.T) {
	f := newFixture(t)
	svc := NewDepartmentService(f.deps)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery("FROM departments").WillReturnRows(sqlmock.NewRows(deptCols))
	f.mock.ExpectRollback()

	assert.ErrorIs(t, svc.AssignManager(context.Background(), Actor{}, 99, nil), ErrNotFound)
	f.verify(t)
}
