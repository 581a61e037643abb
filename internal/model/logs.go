package model

import (
	"encoding/json"
	"strings"
	"time"
)

type CCTVStatus string

const (
	CCTVEntry CCTVStatus = "entry"
	CCTVExit  CCTVStatus = "exit"
)

// CCTVLog is an append-only record of a room door event.
type CCTVLog struct {
	ID        uint64     `json:"id"`
	RoomID    uint64     `json:"room_id"`
	UserID    uint64     `json:"user_id"`
	Action    string     `json:"action"`
	Status    CCTVStatus `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
}

func (l *CCTVLog) Validate() error {
	v := &ValidationError{}
	if l.RoomID == 0 {
		v.Add("room_id", "This field is required.")
	}
	if strings.TrimSpace(l.Action) == "" {
		v.Add("action", "This field may not be blank.")
	}
	if l.Status != CCTVEntry && l.Status != CCTVExit {
		v.Add("status", `"`+string(l.Status)+`" is not a valid choice.`)
	}
	return v.OrNil()
}

// OfflineData holds a JSON payload captured while a terminal was offline,
// waiting to be synced.
type OfflineData struct {
	ID        uint64          `json:"id"`
	Data      json.RawMessage `json:"data"`
	Synced    bool            `json:"synced"`
	CreatedAt time.Time       `json:"created_at"`
}

func (o *OfflineData) Validate() error {
	if len(o.Data) == 0 || !json.Valid(o.Data) {
		return Invalid("data", "Value must be valid JSON.")
	}
	return nil
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
)

// RoomServiceOrder is a guest request delivered to a reserved room.
type RoomServiceOrder struct {
	ID            uint64      `json:"id"`
	ReservationID uint64      `json:"reservation_id"`
	Description   string      `json:"description"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Complete marks the order delivered.
func (o *RoomServiceOrder) Complete() error {
	if o.Status != OrderPending {
		return &TransitionError{From: string(o.Status), To: string(OrderCompleted), Msg: "Order is already completed"}
	}
	o.Status = OrderCompleted
	return nil
}
