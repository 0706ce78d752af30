package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/service"
)

// AdminHandler serves account and department administration.
type AdminHandler struct {
	Accounts    *service.AccountService
	Departments *service.DepartmentService
	Log         *zap.Logger
}

func NewAdminHandler(accounts *service.AccountService, departments *service.DepartmentService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{Accounts: accounts, Departments: departments, Log: log}
}

type createUserReq struct {
	Username     string `json:"username" form:"username" validate:"required,max=50"`
	Email        string `json:"email" form:"email" validate:"required,email"`
	Password     string `json:"password" form:"password" validate:"required,min=8"`
	Role         string `json:"user_type" form:"user_type" validate:"required"`
	FirstName    string `json:"first_name" form:"first_name" validate:"required"`
	LastName     string `json:"last_name" form:"last_name" validate:"required"`
	Phone        string `json:"phone" form:"phone"`
	Tier         string `json:"membership_type" form:"membership_type"`
	AutoRenew    bool   `json:"auto_renew" form:"auto_renew"`
	DepartmentID string `json:"department_id" form:"department_id"`
	Title        string `json:"title" form:"title"`
	NationalID   string `json:"national_id" form:"national_id"`
	SupervisorID string `json:"supervisor_id" form:"supervisor_id"`
	HireDate     string `json:"hire_date" form:"hire_date"`
}

type activeReq struct {
	Active bool `json:"active" form:"active"`
}

type departmentReq struct {
	Name     string `json:"name" form:"name" validate:"required,max=100"`
	Location string `json:"location" form:"location"`
}

type managerReq struct {
	StaffID string `json:"staff_id" form:"staff_id"`
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := h.Accounts.List(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// CreateUser creates an account together with its member or staff profile.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	deptID, err := optionalID(req.DepartmentID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid department_id"})
	}
	supervisorID, err := optionalID(req.SupervisorID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid supervisor_id"})
	}
	hire, err := parseDate(req.HireDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hire_date must be YYYY-MM-DD"})
	}

	in := service.NewAccount{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Tier:         req.Tier,
		AutoRenew:    req.AutoRenew,
		DepartmentID: deptID,
		Title:        req.Title,
		NationalID:   req.NationalID,
		SupervisorID: supervisorID,
	}
	if !hire.IsZero() {
		in.HireDate = &hire
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	acct, err := h.Accounts.Create(ctx, actor(c), in)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, acct)
}

// SetActive activates or deactivates an account.
func (h *AdminHandler) SetActive(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	var req activeReq
	if ok, err := bind(c, &req); !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Accounts.SetActive(ctx, actor(c), id, req.Active); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": id, "is_active": req.Active})
}

// GetUser is the JSON detail endpoint for one account.
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	acct, err := h.Accounts.Get(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, acct)
}

func (h *AdminHandler) ListDepartments(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	depts, err := h.Departments.List(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"departments": depts})
}

func (h *AdminHandler) CreateDepartment(c echo.Context) error {
	var req departmentReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	d, err := h.Departments.Create(ctx, actor(c), req.Name, req.Location)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, d)
}

// AssignManager sets the department manager; a blank staff_id clears it.
func (h *AdminHandler) AssignManager(c echo.Context) error {
	deptID, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	var req managerReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	staffID, err := optionalID(req.StaffID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid staff_id"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Departments.AssignManager(ctx, actor(c), deptID, staffID); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"department_id": deptID, "manager_id": staffID})
}
