// Package services contains the server-side business logic: registration and
// credential verification (AuthService) and token lifecycle (SessionService).
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/listora/listora/internal/common"
	"github.com/listora/listora/internal/logging"
	"github.com/listora/listora/internal/server/auth"
	"github.com/listora/listora/internal/server/models"
	"github.com/listora/listora/internal/server/repositories/repomanager"
)

// AuthService handles user registration, credential verification, and the
// email-verification state transition.
type AuthService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	hasher auth.PasswordHasher
	issuer *auth.Issuer
	logger logging.Logger

	// dummyHash is compared against when the email is unknown so a miss
	// costs as much as a mismatch.
	dummyHash string
}

// NewAuthService constructs an AuthService with its collaborators injected.
func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, hasher auth.PasswordHasher, issuer *auth.Issuer, logger logging.Logger) *AuthService {
	dummy, err := hasher.Hash("listora-equalize-timing")
	if err != nil {
		dummy = ""
	}
	return &AuthService{
		db:        db,
		repos:     repos,
		hasher:    hasher,
		issuer:    issuer,
		logger:    logger,
		dummyHash: dummy,
	}
}

// NormalizeEmail lowercases and trims an email so uniqueness and lookup are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user in pending_verification status. A duplicate
// email surfaces as common.ErrorAlreadyExists; the unique constraint itself
// lives in the database.
func (s *AuthService) Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", common.ErrorValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Status:       models.UserStatusPendingVerification,
	}
	created, err := s.repos.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID)
	return created, nil
}

// Authenticate verifies email+password and returns the user on success.
// It returns (nil, nil) for an unknown email, an inactive account, and a
// wrong password alike, so callers cannot distinguish the three cases.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	repo := s.repos.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn a comparison so unknown emails take as long as wrong passwords
			s.hasher.Verify(password, s.dummyHash)
			return nil, nil
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !user.IsActive() || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil
	}

	user.RecordLogin(time.Now())
	if err := repo.Update(ctx, user); err != nil {
		// best effort: a failed last-login write must not fail the login
		s.logger.Warn(ctx, "failed to record login time", "user_id", user.ID, "error", err)
	}
	return user, nil
}

// VerificationToken mints the email-verification token for a registered
// user. Delivery (mail, SMS) is an external concern.
func (s *AuthService) VerificationToken(userID string) (string, error) {
	return s.issuer.VerificationToken(userID)
}

// VerifyEmail consumes a verification token and moves a pending account to
// active. Verifying an already verified account reports true again.
func (s *AuthService) VerifyEmail(ctx context.Context, userID, token string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("%w: empty user id", common.ErrorValidation)
	}

	claims, err := s.issuer.Verify(token, auth.TokenTypeVerify)
	if err != nil || claims.Subject != userID {
		return false, common.ErrInvalidToken
	}

	repo := s.repos.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, common.ErrorNotFound
		}
		return false, fmt.Errorf("error loading user: %w", err)
	}

	if user.EmailVerifiedAt != nil {
		return true, nil
	}

	user.VerifyEmail(time.Now())
	if err := repo.Update(ctx, user); err != nil {
		return false, fmt.Errorf("error updating user: %w", err)
	}

	s.logger.Info(ctx, "email verified", "user_id", user.ID)
	return true, nil
}
