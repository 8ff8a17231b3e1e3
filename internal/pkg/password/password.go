// Package password hashes and checks passwords with bcrypt.
package password

import (
	"crypto/rand"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	absentOnce sync.Once
	absentHash []byte
)

// Hash returns the bcrypt hash of plain. A cost outside bcrypt's range falls
// back to bcrypt.DefaultCost.
func Hash(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Matches reports whether plain is the password behind hash.
func Matches(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// MatchesAbsent runs one bcrypt comparison against a throwaway hash and
// always reports false. Lookups call it when no account carries the username
// so a miss costs the same as a wrong password.
func MatchesAbsent(plain string) bool {
	_ = bcrypt.CompareHashAndPassword(absentAccountHash(), []byte(plain))
	return false
}

func absentAccountHash() []byte {
	absentOnce.Do(func() {
		secret := make([]byte, 32)
		_, _ = rand.Read(secret)
		absentHash, _ = bcrypt.GenerateFromPassword(secret, bcrypt.DefaultCost)
	})
	return absentHash
}
