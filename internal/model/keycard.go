package model

import (
	"time"

	"github.com/google/uuid"
)

// KeyCard is the door credential issued for a reservation.  The code is
// generated once at issue time and never rewritten.
type KeyCard struct {
	ID            uint64    `json:"id"`
	ReservationID uint64    `json:"reservation_id"`
	KeyCardCode   string    `json:"key_card_code"`
	IssuedAt      time.Time `json:"issued_at"`
}

// NewKeyCard issues a card with a fresh random code.
func NewKeyCard(reservationID uint64) *KeyCard {
	return &KeyCard{ReservationID: reservationID, KeyCardCode: uuid.NewString()}
}
