package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/model"
)

type updateUserReq struct {
	Role     *string `json:"role" validate:"omitempty,oneof=admin manager staff guest"`
	IsActive *bool   `json:"is_active"`
}

func (h *AuthHandler) ListUsers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AuthHandler) GetUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// UpdateUser changes a user's role or active flag.  Absent fields keep
// their stored value.
func (h *AuthHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req updateUserReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if req.Role != nil {
		u.Role = model.Role(*req.Role)
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if err := h.Users.UpdateAccess(ctx, u.ID, u.Role, u.IsActive); err != nil {
		return respondError(c, err)
	}
	if !u.IsActive {
		if err := h.Tokens.RevokeAllForUser(ctx, u.ID); err != nil {
			return respondError(c, err)
		}
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
