package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-management/internal/model"
)

const employeeSelect = `SELECT e.id, e.user_id, u.username, e.position, e.salary_cents, e.hire_date
	FROM employees e JOIN users u ON u.id = e.user_id`

// EmployeeRepo stores the staffing profile of users.
type EmployeeRepo struct {
	db *sql.DB
}

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

func scanEmployee(s scanner) (*model.Employee, error) {
	var e model.Employee
	if err := s.Scan(&e.ID, &e.UserID, &e.Username, &e.Position, &e.SalaryCents, &e.HireDate); err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// Create inserts e.  An unknown user yields ErrInvalidReference and a
// user who already has a profile yields ErrDuplicate.
func (r *EmployeeRepo) Create(ctx context.Context, e *model.Employee) error {
	e.Position = strings.TrimSpace(e.Position)
	id, err := insertedID(r.db.ExecContext(ctx,
		"INSERT INTO employees (user_id, position, salary_cents, hire_date) VALUES (?, ?, ?, ?)",
		e.UserID, e.Position, e.SalaryCents, e.HireDate))
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*e = *got
	return nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id uint64) (*model.Employee, error) {
	return scanEmployee(r.db.QueryRowContext(ctx, employeeSelect+" WHERE e.id = ?", id))
}

func (r *EmployeeRepo) List(ctx context.Context) ([]*model.Employee, error) {
	rows, err := r.db.QueryContext(ctx, employeeSelect+" ORDER BY e.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EmployeeRepo) Update(ctx context.Context, e *model.Employee) error {
	e.Position = strings.TrimSpace(e.Position)
	return affected(r.db.ExecContext(ctx,
		"UPDATE employees SET user_id = ?, position = ?, salary_cents = ?, hire_date = ? WHERE id = ?",
		e.UserID, e.Position, e.SalaryCents, e.HireDate, e.ID))
}

func (r *EmployeeRepo) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id))
}
