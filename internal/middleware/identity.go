package middleware

// identity.go holds the context keys the auth middleware fills and the
// accessors handlers use to read them back.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/model"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// UserID returns the authenticated caller's id.  ok is false for
// anonymous requests.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxUserID).(uint64)
	return id, ok && id != 0
}

// Role returns the authenticated caller's role, or "" when anonymous.
func Role(c echo.Context) model.Role {
	r, _ := c.Get(ctxRole).(model.Role)
	return r
}

// SetIdentity stores the caller on the context.
func SetIdentity(c echo.Context, userID uint64, role model.Role) {
	c.Set(ctxUserID, userID)
	c.Set(ctxRole, role)
}
