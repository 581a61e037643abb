package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/repository"
)

// FacilityHandler serves rooms and halls.
type FacilityHandler struct {
	Rooms *repository.RoomRepo
	Halls *repository.HallRepo
}

func NewFacilityHandler(rooms *repository.RoomRepo, halls *repository.HallRepo) *FacilityHandler {
	return &FacilityHandler{Rooms: rooms, Halls: halls}
}

type roomReq struct {
	Number             string `json:"number" validate:"required"`
	Capacity           int    `json:"capacity"`
	PricePerNightCents int64  `json:"price_per_night_cents"`
	Description        string `json:"description"`
	IsAvailable        bool   `json:"is_available"`
}

func (r roomReq) apply(rm *model.Room) {
	rm.Number = r.Number
	rm.Capacity = r.Capacity
	rm.PricePerNightCents = r.PricePerNightCents
	rm.Description = r.Description
	rm.IsAvailable = r.IsAvailable
}

type hallReq struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Capacity    int     `json:"capacity"`
	Description *string `json:"description"`
	IsAvailable bool    `json:"is_available"`
}

func (r hallReq) apply(h *model.Hall) {
	h.Name = r.Name
	h.Capacity = r.Capacity
	h.Description = r.Description
	h.IsAvailable = r.IsAvailable
}

const (
	dupRoomNumber = "room with this number already exists."
	dupHallName   = "hall with this name already exists."
)

// ----- rooms -----

func (h *FacilityHandler) ListRooms(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rooms)
}

// AvailableRooms lists rooms open for booking.  check_in and check_out
// narrow the list to rooms free for that stay; both or neither must be
// given.
func (h *FacilityHandler) AvailableRooms(c echo.Context) error {
	var checkIn, checkOut *model.Date
	ci, co := c.QueryParam("check_in"), c.QueryParam("check_out")
	if ci != "" || co != "" {
		v := &model.ValidationError{}
		in, err := model.ParseDate(ci)
		if err != nil {
			v.Add("check_in", "Date has wrong format. Use YYYY-MM-DD.")
		}
		out, err := model.ParseDate(co)
		if err != nil {
			v.Add("check_out", "Date has wrong format. Use YYYY-MM-DD.")
		}
		if v.OrNil() == nil && !out.After(in.Time) {
			v.Add("check_out", "Check-out date must be after check-in date.")
		}
		if err := v.OrNil(); err != nil {
			return respondError(c, err)
		}
		checkIn, checkOut = &in, &out
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rooms, err := h.Rooms.ListAvailable(ctx, checkIn, checkOut)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rooms)
}

func (h *FacilityHandler) GetRoom(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rm, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rm)
}

func (h *FacilityHandler) CreateRoom(c echo.Context) error {
	req := roomReq{IsAvailable: true}
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	rm := &model.Room{}
	req.apply(rm)
	if err := rm.Validate(); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Rooms.Create(ctx, rm); err != nil {
		return respondError(c, fieldOn(err, repository.ErrDuplicate, "number", dupRoomNumber))
	}
	return c.JSON(http.StatusCreated, rm)
}

// UpdateRoom serves PUT and PATCH.  PATCH starts from the stored row so
// omitted fields are kept.
func (h *FacilityHandler) UpdateRoom(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rm, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	req := roomReq{IsAvailable: true}
	if c.Request().Method == http.MethodPatch {
		req = roomReq{rm.Number, rm.Capacity, rm.PricePerNightCents, rm.Description, rm.IsAvailable}
	}
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	req.apply(rm)
	if err := rm.Validate(); err != nil {
		return respondError(c, err)
	}
	if err := h.Rooms.Update(ctx, rm); err != nil {
		return respondError(c, fieldOn(err, repository.ErrDuplicate, "number", dupRoomNumber))
	}
	return c.JSON(http.StatusOK, rm)
}

func (h *FacilityHandler) DeleteRoom(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Rooms.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- halls -----

// ListHalls accepts ?available=true to hide halls that cannot be booked.
func (h *FacilityHandler) ListHalls(c echo.Context) error {
	onlyAvailable, _ := strconv.ParseBool(c.QueryParam("available"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	halls, err := h.Halls.List(ctx, onlyAvailable)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, halls)
}

func (h *FacilityHandler) GetHall(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	hall, err := h.Halls.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, hall)
}

func (h *FacilityHandler) CreateHall(c echo.Context) error {
	req := hallReq{IsAvailable: true}
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	hall := &model.Hall{}
	req.apply(hall)
	if err := hall.Validate(); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Halls.Create(ctx, hall); err != nil {
		return respondError(c, fieldOn(err, repository.ErrDuplicate, "name", dupHallName))
	}
	return c.JSON(http.StatusCreated, hall)
}

func (h *FacilityHandler) UpdateHall(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	hall, err := h.Halls.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	req := hallReq{IsAvailable: true}
	if c.Request().Method == http.MethodPatch {
		req = hallReq{hall.Name, hall.Capacity, hall.Description, hall.IsAvailable}
	}
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	req.apply(hall)
	if err := hall.Validate(); err != nil {
		return respondError(c, err)
	}
	if err := h.Halls.Update(ctx, hall); err != nil {
		return respondError(c, fieldOn(err, repository.ErrDuplicate, "name", dupHallName))
	}
	return c.JSON(http.StatusOK, hall)
}

func (h *FacilityHandler) DeleteHall(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Halls.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
