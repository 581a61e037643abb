package utils

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a user password or POS account secret.  A cost
// outside bcrypt's range falls back to bcrypt.DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// VerifyPassword compares plain against hash.  An empty hash (unknown user
// or account) is still compared against a throwaway hash so both failures
// take about as long.
func VerifyPassword(hash, plain string) bool {
	if hash == "" {
		dummyOnce.Do(func() {
			dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unknown-principal"), bcrypt.DefaultCost)
		})
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
