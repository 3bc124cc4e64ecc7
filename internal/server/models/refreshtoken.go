package models

import "time"

// RefreshToken is the stored form of an issued refresh token. Only the
// SHA-256 digest of the raw token is persisted, so a leaked table does not
// yield usable credentials.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
