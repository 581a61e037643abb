package model

import "strings"

// Employee is the staffing profile attached one-to-one to a user.
type Employee struct {
	ID          uint64 `json:"id"`
	UserID      uint64 `json:"user_id"`
	Username    string `json:"user"`
	Position    string `json:"position"`
	SalaryCents int64  `json:"salary_cents"`
	HireDate    Date   `json:"hire_date"`
}

func (e *Employee) Validate() error {
	v := &ValidationError{}
	if e.UserID == 0 {
		v.Add("user_id", "This field is required.")
	}
	if strings.TrimSpace(e.Position) == "" {
		v.Add("position", "This field may not be blank.")
	}
	if e.SalaryCents <= 0 {
		v.Add("salary_cents", "Salary must be greater than zero.")
	}
	if e.HireDate.IsZero() {
		v.Add("hire_date", "This field is required.")
	}
	return v.OrNil()
}
