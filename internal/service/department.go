package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/museum-desk/internal/database"
	"github.com/iliyamo/museum-desk/internal/model"
	"github.com/iliyamo/museum-desk/internal/repository"
)

// ErrDepartmentExists is returned when a department name is reused.
var ErrDepartmentExists = errors.New("department already exists")

// DepartmentService manages departments and their managers.
type DepartmentService struct {
	Deps
	departments *repository.DepartmentRepo
	staff       *repository.StaffRepo
}

func NewDepartmentService(d Deps) *DepartmentService {
	d = d.withDefaults()
	return &DepartmentService{
		Deps:        d,
		departments: repository.NewDepartmentRepo(d.DB),
		staff:       repository.NewStaffRepo(d.DB),
	}
}

func (s *DepartmentService) List(ctx context.Context) ([]model.Department, error) {
	return s.departments.List(ctx)
}

func (s *DepartmentService) Create(ctx context.Context, actor Actor, name, location string) (model.Department, error) {
	if err := required([2]string{"name", name}); err != nil {
		return model.Department{}, err
	}
	d := model.Department{Name: strings.TrimSpace(name), Location: strings.TrimSpace(location)}
	if err := s.departments.Create(ctx, &d); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.Department{}, ErrDepartmentExists
		}
		return model.Department{}, err
	}
	s.Activity.Record(ctx, actor, model.ActionCreateDepartment, "departments", d.ID, "Created department "+d.Name)
	return d, nil
}

// AssignManager sets or, with a nil staffID, clears the manager of a
// department. The staff member must belong to that department; a mismatch
// is rejected before any write.
func (s *DepartmentService) AssignManager(ctx context.Context, actor Actor, departmentID uint64, staffID *uint64) error {
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := s.departments.LockTx(ctx, tx, departmentID); err != nil {
			return fromRepo(err)
		}
		if staffID != nil {
			st, err := s.staff.GetByIDTx(ctx, tx, *staffID)
			if err != nil {
				return fromRepo(err)
			}
			if st.DepartmentID == nil || *st.DepartmentID != departmentID {
				return ErrManagerNotInDepartment
			}
		}
		return s.departments.SetManagerTx(ctx, tx, departmentID, staffID)
	})
	if err != nil {
		return err
	}

	desc := "Cleared department manager"
	if staffID != nil {
		desc = fmt.Sprintf("Assigned staff %d as department manager", *staffID)
	}
	s.Activity.Record(ctx, actor, model.ActionAssignManager, "departments", departmentID, desc)
	return nil
}
