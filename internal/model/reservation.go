package model

import "time"

// ReservationStatus is a stay's position in its lifecycle.  It only moves
// forward: pending → confirmed → checked_in → checked_out.
type ReservationStatus string

const (
	StatusPending    ReservationStatus = "pending"
	StatusConfirmed  ReservationStatus = "confirmed"
	StatusCheckedIn  ReservationStatus = "checked_in"
	StatusCheckedOut ReservationStatus = "checked_out"
)

// BlockingStatuses hold the room for their date range.
var BlockingStatuses = []ReservationStatus{StatusPending, StatusConfirmed, StatusCheckedIn}

// Reservation records a guest's stay in a room.
//
// Fields:
//  GuestID      – user the room is booked for.
//  RoomID       – booked room.
//  CheckInDate  – first night.
//  CheckOutDate – departure day, strictly after CheckInDate.
type Reservation struct {
	ID           uint64            `json:"id"`
	GuestID      uint64            `json:"guest_id"`
	RoomID       uint64            `json:"room_id"`
	CheckInDate  Date              `json:"check_in_date"`
	CheckOutDate Date              `json:"check_out_date"`
	Status       ReservationStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ValidateStay enforces the date rules for a new or edited reservation:
// check-in not before today, check-out strictly after check-in.
func ValidateStay(checkIn, checkOut, today Date) error {
	v := &ValidationError{}
	if checkIn.IsZero() {
		v.Add("check_in_date", "This field is required.")
	}
	if checkOut.IsZero() {
		v.Add("check_out_date", "This field is required.")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	if checkIn.Before(today.Time) {
		v.Add("check_in_date", "Check-in date cannot be in the past.")
	}
	if !checkOut.After(checkIn.Time) {
		v.Add("check_out_date", "Check-out date must be after check-in date.")
	}
	return v.OrNil()
}

// Confirm moves a pending reservation to confirmed.
func (r *Reservation) Confirm() error {
	return r.advance(StatusPending, StatusConfirmed, "Reservation must be pending before confirmation")
}

// CheckIn moves a confirmed reservation to checked_in.
func (r *Reservation) CheckIn() error {
	return r.advance(StatusConfirmed, StatusCheckedIn, "Reservation must be confirmed before check-in")
}

// CheckOut moves a checked-in reservation to checked_out.
func (r *Reservation) CheckOut() error {
	return r.advance(StatusCheckedIn, StatusCheckedOut, "Reservation must be checked in before check-out")
}

// Editable reports whether dates and room may still change.
func (r *Reservation) Editable() bool { return r.Status == StatusPending }

// status is left untouched on failure
func (r *Reservation) advance(from, to ReservationStatus, msg string) error {
	if r.Status != from {
		return &TransitionError{From: string(r.Status), To: string(to), Msg: msg}
	}
	r.Status = to
	return nil
}
