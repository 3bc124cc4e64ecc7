package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/listora/listora/internal/common"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 12

// PasswordHasher is the one-way credential hashing contract.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// BcryptHasher implements PasswordHasher with bcrypt and a tunable cost.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash derives a salted bcrypt hash of password. Empty passwords are refused.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", common.ErrorValidation
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches hash. The comparison inside bcrypt
// is constant-time; malformed stored hashes simply report false.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
