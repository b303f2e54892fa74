// Package password wraps bcrypt for credential storage and holds the
// registration complexity policy.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches the work factor existing digests were created with.
const DefaultCost = 10

var (
	ErrInvalidHash     = errors.New("invalid password hash")
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// Hasher produces self-describing bcrypt digests ($2a$<cost>$<salt><hash>).
type Hasher struct {
	cost int
}

// NewHasher clamps cost into bcrypt's accepted range.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

// Hash salts and hashes plaintext. bcrypt generates a fresh salt per call.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxBytes {
		return "", ErrPasswordTooLong
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify recomputes the hash with the cost and salt embedded in digest.
// Returns (false, nil) on mismatch and (false, ErrInvalidHash) when digest
// cannot be parsed.
func (h *Hasher) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
}

// Cost reports the work factor digest was created with.
func (h *Hasher) Cost(digest string) (int, error) {
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	return cost, nil
}
