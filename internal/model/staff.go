package model

import "time"

// Staff is a row of the `staff` table, the profile of every staff-class
// account (admin, curator, shop_staff, event_staff).
type Staff struct {
	ID           uint64    `json:"staff_id"`      // staff.staff_id
	DepartmentID *uint64   `json:"department_id"` // staff.department_id (nullable)
	FirstName    string    `json:"first_name"`    // staff.first_name
	LastName     string    `json:"last_name"`     // staff.last_name
	Email        string    `json:"email"`         // staff.email
	Title        string    `json:"title"`         // staff.title
	HireDate     time.Time `json:"hire_date"`     // staff.hire_date
	NationalID   string    `json:"-"`             // staff.ssn, digits only
	SupervisorID *uint64   `json:"supervisor_id"` // staff.supervisor_id (nullable)
}

// Department is a row of the `departments` table. ManagerID is a weak
// back-reference into staff and must name staff of this same department.
type Department struct {
	ID        uint64  `json:"department_id"` // departments.department_id
	Name      string  `json:"name"`          // departments.name
	Location  string  `json:"location"`      // departments.location
	ManagerID *uint64 `json:"manager_id"`    // departments.manager_id (nullable)
}
