package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/queue"
	"github.com/iliyamo/hotel-management/internal/repository"
	"github.com/iliyamo/hotel-management/internal/service"
)

// StayHandler covers a guest's stay: the reservation and its lifecycle,
// its payment, its key card and room-service orders.
type StayHandler struct {
	Reservations *repository.ReservationRepo
	Payments     *repository.PaymentRepo
	KeyCards     *repository.KeyCardRepo
	Orders       *repository.LogRepo
	Events       service.EventPublisher
}

func NewStayHandler(r *repository.ReservationRepo, p *repository.PaymentRepo, k *repository.KeyCardRepo,
	o *repository.LogRepo, ev service.EventPublisher) *StayHandler {
	return &StayHandler{Reservations: r, Payments: p, KeyCards: k, Orders: o, Events: ev}
}

// ----- DTOs -----

type reservationReq struct {
	RoomID       uint64     `json:"room_id" validate:"required"`
	CheckInDate  model.Date `json:"check_in_date"`
	CheckOutDate model.Date `json:"check_out_date"`
	GuestID      *uint64    `json:"guest_id"`
}
type rescheduleReq struct {
	RoomID       *uint64     `json:"room_id"`
	CheckInDate  *model.Date `json:"check_in_date"`
	CheckOutDate *model.Date `json:"check_out_date"`
}

// loadOwned fetches a reservation the caller may see.  Other guests'
// reservations are reported as missing.
func (h *StayHandler) loadOwned(c echo.Context, id uint64) (*model.Reservation, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !owns(c, res.GuestID) {
		return nil, repository.ErrNotFound
	}
	return res, nil
}

// ----- reservations -----

// CreateReservation books a room for the caller, or for guest_id when the
// caller may act on every record.  The room is locked while overlap is
// checked, so two bookings for the same nights cannot both succeed.
func (h *StayHandler) CreateReservation(c echo.Context) error {
	var req reservationReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	if err := model.ValidateStay(req.CheckInDate, req.CheckOutDate, model.Today()); err != nil {
		return respondError(c, err)
	}
	guest := callerID(c)
	if req.GuestID != nil && *req.GuestID != guest {
		if !owns(c, *req.GuestID) {
			return respondError(c, repository.ErrForbidden)
		}
		guest = *req.GuestID
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res := &model.Reservation{
		GuestID:      guest,
		RoomID:       req.RoomID,
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
	}
	if err := h.Reservations.Create(ctx, res); err != nil {
		return respondError(c, fieldOn(err, repository.ErrInvalidReference, "guest_id", "Invalid pk - object does not exist."))
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *StayHandler) ListReservations(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Reservations.List(ctx, scope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// MyReservations lists the caller's own stays regardless of role.
func (h *StayHandler) MyReservations(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	uid := callerID(c)
	out, err := h.Reservations.List(ctx, &uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StayHandler) GetReservation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.loadOwned(c, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// UpdateReservation changes the room or dates of a pending reservation.
// The new stay is validated and checked for overlap like a new booking.
func (h *StayHandler) UpdateReservation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req rescheduleReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Reservations.Reschedule(ctx, id, func(r *model.Reservation) error {
		if !owns(c, r.GuestID) {
			return repository.ErrNotFound
		}
		if !r.Editable() {
			return &model.TransitionError{From: string(r.Status), To: string(r.Status),
				Msg: "Only pending reservations can be changed"}
		}
		if req.RoomID != nil {
			r.RoomID = *req.RoomID
		}
		if req.CheckInDate != nil {
			r.CheckInDate = *req.CheckInDate
		}
		if req.CheckOutDate != nil {
			r.CheckOutDate = *req.CheckOutDate
		}
		return model.ValidateStay(r.CheckInDate, r.CheckOutDate, model.Today())
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// DeleteReservation lets a guest cancel while the booking is pending.
// Front desk roles may delete at any stage.
func (h *StayHandler) DeleteReservation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.loadOwned(c, id)
	if err != nil {
		return respondError(c, err)
	}
	if !canFrontDesk(c) && !res.Editable() {
		return respondError(c, repository.ErrForbidden)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reservations.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// transition applies one lifecycle step under a row lock and announces
// the new status once it has committed.
func (h *StayHandler) transition(step func(*model.Reservation) error, done string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		ctx, cancel := reqCtx(c)
		defer cancel()

		res, err := h.Reservations.Transition(ctx, id, step)
		if err != nil {
			return respondError(c, err)
		}
		if ev, ok := queue.ReservationEvent(res); ok {
			emit(c, h.Events, ev)
		}
		return c.JSON(http.StatusOK, echo.Map{"status": done, "reservation": res})
	}
}

func (h *StayHandler) Confirm() echo.HandlerFunc {
	return h.transition((*model.Reservation).Confirm, "Reservation confirmed")
}

func (h *StayHandler) CheckIn() echo.HandlerFunc {
	return h.transition((*model.Reservation).CheckIn, "Checked in successfully")
}

func (h *StayHandler) CheckOut() echo.HandlerFunc {
	return h.transition((*model.Reservation).CheckOut, "Checked out successfully")
}

// ----- key cards -----

// IssueKeyCard creates the reservation's door card.  A reservation holds
// at most one card and its code is never rewritten.
func (h *StayHandler) IssueKeyCard(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Reservations.GetByID(ctx, id); err != nil {
		return respondError(c, err)
	}
	k, err := h.KeyCards.Issue(ctx, id)
	if err != nil {
		return respondError(c, fieldOn(err, repository.ErrDuplicate, "reservation_id", "key card with this reservation already exists."))
	}
	return c.JSON(http.StatusCreated, k)
}

func (h *StayHandler) ListKeyCards(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.KeyCards.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StayHandler) GetKeyCard(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	k, err := h.KeyCards.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, k)
}

func (h *StayHandler) DeleteKeyCard(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.KeyCards.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
