package model

import (
	"net/mail"
	"strings"
	"time"
)

// User represents an application user record as stored in the `users`
// table.  PasswordHash never leaves the process: it has no JSON name.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  Email        – unique email address (stored lower-cased).
//  PasswordHash – bcrypt hashed password.
//  Role         – admin, manager, staff or guest.
//  IsActive     – inactive users cannot sign in.
type User struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration checks sign-up input before it reaches the store.
func ValidateRegistration(username, email, password string) error {
	v := &ValidationError{}
	if strings.TrimSpace(username) == "" {
		v.Add("username", "This field may not be blank.")
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		v.Add("email", "Enter a valid email address.")
	}
	if len(password) < 8 {
		v.Add("password", "Ensure this field has at least 8 characters.")
	}
	return v.OrNil()
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA‑256 hash of the token is stored.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
