package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/queue"
	"github.com/iliyamo/hotel-management/internal/repository"
)

type paymentReq struct {
	ReservationID              uint64  `json:"reservation_id" validate:"required"`
	AmountCents                int64   `json:"amount_cents"`
	PaymentMethod              string  `json:"payment_method" validate:"required"`
	MobileTransactionReference *string `json:"mobile_transaction_reference" validate:"omitempty,max=100"`
}

type orderReq struct {
	ReservationID uint64 `json:"reservation_id" validate:"required"`
	Description   string `json:"description" validate:"required"`
}

// reservationFor loads the reservation a payment or order is filed
// against.  Guests may only file against their own.
func (h *StayHandler) reservationFor(c echo.Context, id uint64) (*model.Reservation, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Reservations.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.Invalid("reservation_id", "Invalid pk - object does not exist.")
	}
	if err != nil {
		return nil, err
	}
	if !owns(c, res.GuestID) {
		return nil, repository.ErrForbidden
	}
	return res, nil
}

// ----- payments -----

// CreatePayment settles a reservation.  Cash and mobile payments complete
// immediately and are announced; card payments wait for mark_as_paid.
func (h *StayHandler) CreatePayment(c echo.Context) error {
	var req paymentReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	p, err := model.NewPayment(req.ReservationID, req.AmountCents,
		model.PaymentMethod(req.PaymentMethod), req.MobileTransactionReference)
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.reservationFor(c, req.ReservationID)
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Payments.Create(ctx, p); err != nil {
		return respondError(c, fieldOn(err, repository.ErrDuplicate, "reservation_id", "payment with this reservation already exists."))
	}
	if p.PaymentStatus == model.PaymentCompleted {
		emit(c, h.Events, queue.PaymentEvent(p, res.GuestID))
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *StayHandler) ListPayments(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Payments.List(ctx, scope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StayHandler) GetPayment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Payments.GetByID(ctx, id, scope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// MarkAsPaid completes a pending payment.  Repeating it on a completed
// payment succeeds without publishing again.
func (h *StayHandler) MarkAsPaid(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, changed, err := h.Payments.MarkAsPaid(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if changed {
		if res, err := h.Reservations.GetByID(ctx, p.ReservationID); err == nil {
			emit(c, h.Events, queue.PaymentEvent(p, res.GuestID))
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "Payment marked as paid", "payment": p})
}

func (h *StayHandler) DeletePayment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Payments.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- room service -----

func (h *StayHandler) CreateOrder(c echo.Context) error {
	var req orderReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	if _, err := h.reservationFor(c, req.ReservationID); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	o := &model.RoomServiceOrder{ReservationID: req.ReservationID, Description: req.Description}
	if err := h.Orders.CreateOrder(ctx, o); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *StayHandler) ListOrders(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Orders.ListOrders(ctx, scope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StayHandler) CompleteOrder(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	o, err := h.Orders.CompleteOrder(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}
