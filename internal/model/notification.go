package model

import (
	"strings"
	"time"
)

// Notification is a message addressed to one user.
type Notification struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    bool      `json:"is_read"`
}

func (n *Notification) Validate() error {
	v := &ValidationError{}
	if t := strings.TrimSpace(n.Title); t == "" {
		v.Add("title", "This field may not be blank.")
	} else if len(t) > 255 {
		v.Add("title", "Ensure this field has no more than 255 characters.")
	}
	if strings.TrimSpace(n.Message) == "" {
		v.Add("message", "This field may not be blank.")
	}
	return v.OrNil()
}
