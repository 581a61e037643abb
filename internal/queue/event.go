// Package queue defines the stay events exchanged over the message broker
// and the consumer that records them.
package queue

import (
	"fmt"
	"time"

	"github.com/iliyamo/hotel-management/internal/model"
)

// StayQueue is the durable queue every stay event is published to.
const StayQueue = "hotel.stay_events"

// EventType names what happened to a stay.
type EventType string

const (
	ReservationConfirmed  EventType = "reservation.confirmed"
	ReservationCheckedIn  EventType = "reservation.checked_in"
	ReservationCheckedOut EventType = "reservation.checked_out"
	PaymentCompleted      EventType = "payment.completed"
)

// StayEvent is published after a reservation moves forward or its payment
// completes.  It carries enough for the consumer to log and notify the
// guest without reading the database.
type StayEvent struct {
	Type          EventType `json:"type"`
	ReservationID uint64    `json:"reservation_id"`
	GuestID       uint64    `json:"guest_id"`
	RoomID        uint64    `json:"room_id,omitempty"`
	CheckInDate   string    `json:"check_in_date,omitempty"`
	CheckOutDate  string    `json:"check_out_date,omitempty"`
	PaymentID     uint64    `json:"payment_id,omitempty"`
	AmountCents   int64     `json:"amount_cents,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// ReservationEvent builds the event for a reservation that just reached
// res.Status.  ok is false for statuses that publish nothing.
func ReservationEvent(res *model.Reservation) (StayEvent, bool) {
	var t EventType
	switch res.Status {
	case model.StatusConfirmed:
		t = ReservationConfirmed
	case model.StatusCheckedIn:
		t = ReservationCheckedIn
	case model.StatusCheckedOut:
		t = ReservationCheckedOut
	default:
		return StayEvent{}, false
	}
	return StayEvent{
		Type:          t,
		ReservationID: res.ID,
		GuestID:       res.GuestID,
		RoomID:        res.RoomID,
		CheckInDate:   res.CheckInDate.String(),
		CheckOutDate:  res.CheckOutDate.String(),
		OccurredAt:    time.Now().UTC(),
	}, true
}

// PaymentEvent builds the event for a payment that just completed.
func PaymentEvent(p *model.Payment, guestID uint64) StayEvent {
	return StayEvent{
		Type:          PaymentCompleted,
		ReservationID: p.ReservationID,
		GuestID:       guestID,
		PaymentID:     p.ID,
		AmountCents:   p.AmountCents,
		OccurredAt:    time.Now().UTC(),
	}
}

// Notification renders the message the guest receives for ev.
func (ev StayEvent) Notification() *model.Notification {
	n := &model.Notification{UserID: ev.GuestID}
	switch ev.Type {
	case ReservationConfirmed:
		n.Title = "Reservation confirmed"
		n.Message = fmt.Sprintf("Your reservation #%d from %s to %s is confirmed.", ev.ReservationID, ev.CheckInDate, ev.CheckOutDate)
	case ReservationCheckedIn:
		n.Title = "Welcome"
		n.Message = fmt.Sprintf("You are checked in for reservation #%d. Enjoy your stay.", ev.ReservationID)
	case ReservationCheckedOut:
		n.Title = "Thank you for staying with us"
		n.Message = fmt.Sprintf("Reservation #%d is checked out.", ev.ReservationID)
	case PaymentCompleted:
		n.Title = "Payment received"
		n.Message = fmt.Sprintf("Payment of %d.%02d for reservation #%d is complete.", ev.AmountCents/100, ev.AmountCents%100, ev.ReservationID)
	default:
		n.Title = "Reservation update"
		n.Message = fmt.Sprintf("Reservation #%d was updated.", ev.ReservationID)
	}
	return n
}

// LogLine is the single line appended to the stay log for ev.
func (ev StayEvent) LogLine() string {
	line := fmt.Sprintf("[%s] %s | reservation_id=%d | guest_id=%d",
		ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.ReservationID, ev.GuestID)
	if ev.RoomID != 0 {
		line += fmt.Sprintf(" | room_id=%d | stay=%s..%s", ev.RoomID, ev.CheckInDate, ev.CheckOutDate)
	}
	if ev.PaymentID != 0 {
		line += fmt.Sprintf(" | payment_id=%d | amount=%d cents", ev.PaymentID, ev.AmountCents)
	}
	return line + "\n"
}
