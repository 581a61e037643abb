package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/model"
)

// RequireCapability rejects callers whose role does not hold cap.  It
// expects JWTAuth to have run first; a request without a role is treated
// as holding nothing.
func RequireCapability(cap model.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !Role(c).Can(cap) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "You do not have permission to perform this action."})
			}
			return next(c)
		}
	}
}
