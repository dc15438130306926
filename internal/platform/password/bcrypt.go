// Package password hashes and verifies user passwords with bcrypt.
//
// Passwords are reduced to a base64 SHA-256 digest before bcrypt, so any
// non-empty password hashes successfully regardless of length.
package password

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = errors.New("password must not be empty")

// Hasher hashes passwords with a fixed bcrypt cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using cost. Out of range costs fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted bcrypt hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashed, err := bcrypt.GenerateFromPassword(prehash(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches hash.
// A malformed hash is treated as a mismatch.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password)) == nil
}

// prehash returns the 44-byte base64 encoding of the SHA-256 digest of password,
// which stays under bcrypt's 72-byte input limit.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
