// Package refreshtokens declares the repository contract for stored refresh
// tokens and its PostgreSQL implementation. Records are keyed by the SHA-256
// digest of the raw token; the raw value is never persisted.
package refreshtokens

import (
	"context"
	"time"

	"github.com/listora/listora/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// refresh tokens.
type Repository interface {
	// Create stores a new refresh token hash for userID with an expiry of
	// now+validity.
	Create(ctx context.Context, userID string, tokenHash string, validity time.Duration) error

	// GetByTokenHash looks up a refresh token by its digest and returns its
	// metadata, or common.ErrorNotFound when absent.
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// GetByUserID returns every stored refresh token belonging to userID.
	GetByUserID(ctx context.Context, userID string) ([]*models.RefreshToken, error)

	// DeleteByTokenHash removes a single refresh token by its digest and
	// reports whether a record existed.
	DeleteByTokenHash(ctx context.Context, tokenHash string) (bool, error)

	// DeleteByUserID removes every refresh token belonging to userID and
	// returns the number of records removed.
	DeleteByUserID(ctx context.Context, userID string) (int64, error)

	// DeleteExpired removes every refresh token whose expiry has passed and
	// returns the number of records removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
