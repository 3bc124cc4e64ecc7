package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken computes the deterministic digest under which a raw refresh
// token is stored. The raw value itself never reaches the database.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
