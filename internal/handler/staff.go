package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/repository"
)

// EmployeeHandler manages staffing profiles.
type EmployeeHandler struct {
	Employees *repository.EmployeeRepo
}

func NewEmployeeHandler(e *repository.EmployeeRepo) *EmployeeHandler {
	return &EmployeeHandler{Employees: e}
}

type employeeReq struct {
	UserID      uint64     `json:"user_id"`
	Position    string     `json:"position" validate:"max=100"`
	SalaryCents int64      `json:"salary_cents"`
	HireDate    model.Date `json:"hire_date"`
}

func (r employeeReq) apply(e *model.Employee) {
	e.UserID = r.UserID
	e.Position = r.Position
	e.SalaryCents = r.SalaryCents
	e.HireDate = r.HireDate
}

func (h *EmployeeHandler) save(c echo.Context, e *model.Employee, create bool) error {
	if err := e.Validate(); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	var err error
	if create {
		err = h.Employees.Create(ctx, e)
	} else if err = h.Employees.Update(ctx, e); err == nil {
		var got *model.Employee
		if got, err = h.Employees.GetByID(ctx, e.ID); err == nil {
			*e = *got
		}
	}
	err = fieldOn(err, repository.ErrDuplicate, "user_id", "employee with this user already exists.")
	return fieldOn(err, repository.ErrInvalidReference, "user_id", "Invalid pk - object does not exist.")
}

func (h *EmployeeHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Employees.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EmployeeHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Employees.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *EmployeeHandler) Create(c echo.Context) error {
	var req employeeReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	e := &model.Employee{}
	req.apply(e)
	if err := h.save(c, e, true); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *EmployeeHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Employees.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	var req employeeReq
	if c.Request().Method == http.MethodPatch {
		req = employeeReq{e.UserID, e.Position, e.SalaryCents, e.HireDate}
	}
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	req.apply(e)
	if err := h.save(c, e, false); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *EmployeeHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Employees.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
