package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/repository"
)

// FrontDeskHandler records the append-only CCTV door log and the
// payloads terminals captured while offline.
type FrontDeskHandler struct {
	Logs *repository.LogRepo
}

func NewFrontDeskHandler(l *repository.LogRepo) *FrontDeskHandler {
	return &FrontDeskHandler{Logs: l}
}

type cctvReq struct {
	RoomID uint64  `json:"room_id" validate:"required"`
	UserID *uint64 `json:"user_id"`
	Action string  `json:"action" validate:"required,max=255"`
	Status string  `json:"status" validate:"required,oneof=entry exit"`
}

type offlineReq struct {
	Data json.RawMessage `json:"data"`
}

// CreateCCTV logs a door event.  user_id defaults to the caller.
func (h *FrontDeskHandler) CreateCCTV(c echo.Context) error {
	var req cctvReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	l := &model.CCTVLog{RoomID: req.RoomID, UserID: callerID(c), Action: req.Action, Status: model.CCTVStatus(req.Status)}
	if req.UserID != nil {
		l.UserID = *req.UserID
	}
	if err := l.Validate(); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Logs.CreateCCTV(ctx, l); err != nil {
		return respondError(c, fieldOn(err, repository.ErrInvalidReference, "room_id", "Invalid pk - object does not exist."))
	}
	return c.JSON(http.StatusCreated, l)
}

// ListCCTV accepts ?room_id= to follow one door.
func (h *FrontDeskHandler) ListCCTV(c echo.Context) error {
	var roomID *uint64
	if s := c.QueryParam("room_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return respondError(c, model.Invalid("room_id", "A valid integer is required."))
		}
		roomID = &id
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Logs.ListCCTV(ctx, roomID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FrontDeskHandler) CreateOffline(c echo.Context) error {
	var req offlineReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	o := &model.OfflineData{Data: req.Data}
	if err := o.Validate(); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Logs.CreateOffline(ctx, o); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

// ListOffline accepts ?pending=true to show only unsynced payloads.
func (h *FrontDeskHandler) ListOffline(c echo.Context) error {
	pending, _ := strconv.ParseBool(c.QueryParam("pending"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Logs.ListOffline(ctx, pending)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FrontDeskHandler) SyncOffline(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Logs.MarkSynced(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "synced": true})
}
