package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/repository"
)

type NotificationHandler struct {
	Notifications *repository.NotificationRepo
}

func NewNotificationHandler(n *repository.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{Notifications: n}
}

type notificationReq struct {
	Title   string  `json:"title" validate:"required"`
	Message string  `json:"message" validate:"required"`
	UserID  *uint64 `json:"user_id"`
}

// List returns the caller's notifications.  ?all=true widens it to every
// user for callers who may see all records.
func (h *NotificationHandler) List(c echo.Context) error {
	uid := callerID(c)
	userID := &uid
	if all, _ := strconv.ParseBool(c.QueryParam("all")); all {
		userID = scope(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Notifications.List(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *NotificationHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Notifications.GetByID(ctx, id, scope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}

// Create addresses a notification to the caller, or to user_id when the
// caller may act on every record.
func (h *NotificationHandler) Create(c echo.Context) error {
	var req notificationReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	n := &model.Notification{UserID: callerID(c), Title: req.Title, Message: req.Message}
	if req.UserID != nil && *req.UserID != n.UserID {
		if !owns(c, *req.UserID) {
			return respondError(c, repository.ErrForbidden)
		}
		n.UserID = *req.UserID
	}
	if err := n.Validate(); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Notifications.Create(ctx, n); err != nil {
		return respondError(c, fieldOn(err, repository.ErrInvalidReference, "user_id", "Invalid pk - object does not exist."))
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Notifications.MarkRead(ctx, id, callerID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_read": true})
}

func (h *NotificationHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Notifications.Delete(ctx, id, callerID(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
