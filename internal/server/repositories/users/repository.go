// Package users declares the persistence contract for user identities and
// its PostgreSQL implementation.
package users

import (
	"context"

	"github.com/listora/listora/internal/server/models"
)

// Repository defines persistence operations for user identity records.
// Implementations must return common.ErrorNotFound for absent rows and
// common.ErrorAlreadyExists when the unique-email constraint is violated.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}
