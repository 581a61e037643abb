package model

import (
	"strings"
	"time"
)

// AccountKind separates bar tills from restaurant tills.
type AccountKind string

const (
	AccountBar        AccountKind = "bar"
	AccountRestaurant AccountKind = "restaurant"
)

func ParseAccountKind(s string) (AccountKind, bool) {
	switch k := AccountKind(strings.ToLower(strings.TrimSpace(s))); k {
	case AccountBar, AccountRestaurant:
		return k, true
	}
	return "", false
}

// Account is a bar or restaurant cash register.  Its balance only moves
// through recorded sales; clients cannot write it.
type Account struct {
	ID           uint64      `json:"id"`
	Kind         AccountKind `json:"account_type"`
	AccountName  string      `json:"account_name"`
	BalanceCents int64       `json:"balance_cents"`
	PasswordHash string      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
}

// ValidateAccount checks create/update input; password may be empty on
// update to keep the current secret.
func ValidateAccount(name, password string, requirePassword bool) error {
	v := &ValidationError{}
	if n := strings.TrimSpace(name); n == "" {
		v.Add("account_name", "This field may not be blank.")
	} else if len(n) > 100 {
		v.Add("account_name", "Ensure this field has no more than 100 characters.")
	}
	if requirePassword && password == "" {
		v.Add("password", "This field may not be blank.")
	}
	if password != "" && len(password) < 6 {
		v.Add("password", "Ensure this field has at least 6 characters.")
	}
	return v.OrNil()
}
