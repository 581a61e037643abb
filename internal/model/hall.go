package model

import (
	"strings"
	"time"
)

// Hall is a bookable function space (conference or banquet hall).
type Hall struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Capacity    int       `json:"capacity"`
	Description *string   `json:"description"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *Hall) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(h.Name) == "" {
		v.Add("name", "This field may not be blank.")
	}
	if h.Capacity <= 0 {
		v.Add("capacity", "Capacity must be greater than zero.")
	}
	return v.OrNil()
}

// Room is a guest room.  Prices are kept in cents.
type Room struct {
	ID                 uint64    `json:"id"`
	Number             string    `json:"number"`
	Capacity           int       `json:"capacity"`
	PricePerNightCents int64     `json:"price_per_night_cents"`
	Description        string    `json:"description"`
	IsAvailable        bool      `json:"is_available"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (r *Room) Validate() error {
	v := &ValidationError{}
	if n := strings.TrimSpace(r.Number); n == "" {
		v.Add("number", "This field may not be blank.")
	} else if len(n) > 10 {
		v.Add("number", "Ensure this field has no more than 10 characters.")
	}
	if r.Capacity <= 0 {
		v.Add("capacity", "Capacity must be greater than zero.")
	}
	if r.PricePerNightCents < 0 {
		v.Add("price_per_night_cents", "Price cannot be negative.")
	}
	return v.OrNil()
}
