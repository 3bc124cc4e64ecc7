package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/listora/listora/internal/common"
	"github.com/listora/listora/internal/dbx"
	"github.com/listora/listora/internal/logging"
	"github.com/listora/listora/internal/server/auth"
	"github.com/listora/listora/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionService owns the refresh-token lifecycle: issuing pairs, rotating
// them on refresh, revoking them on disconnect, and sweeping expired rows.
// No other component writes refresh-token records.
type SessionService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	issuer *auth.Issuer
	logger logging.Logger
}

// NewSessionService constructs a SessionService with its collaborators injected.
func NewSessionService(db *sql.DB, repos repomanager.RepositoryManager, issuer *auth.Issuer, logger logging.Logger) *SessionService {
	return &SessionService{db: db, repos: repos, issuer: issuer, logger: logger}
}

// Issue mints an access+refresh pair for userID and persists the digest of
// the refresh token.
func (s *SessionService) Issue(ctx context.Context, userID string) (*TokenPair, error) {
	return s.generateTokenPair(ctx, userID, s.db)
}

// Refresh rotates a presented refresh token: the old record is deleted and a
// new pair is minted in one transaction, so each refresh token works exactly
// once. Of two concurrent attempts with the same token, the loser's delete
// matches no rows and fails with an invalid-token error.
func (s *SessionService) Refresh(ctx context.Context, rawToken string) (*TokenPair, error) {
	claims, err := s.issuer.Verify(rawToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	tokenHash := auth.HashToken(rawToken)
	stored, err := s.repos.RefreshTokens(s.db).GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if stored.ExpiresAt.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}
	if stored.UserID != claims.Subject {
		return nil, common.ErrInvalidToken
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		deleted, err := s.repos.RefreshTokens(tx).DeleteByTokenHash(ctx, tokenHash)
		if err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		if !deleted {
			// a concurrent refresh already rotated this token
			return common.ErrInvalidToken
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, stored.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Disconnect revokes every refresh token belonging to userID. The boolean
// reports whether any record existed; revoking an empty set is not an error.
func (s *SessionService) Disconnect(ctx context.Context, userID string) (bool, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return false, fmt.Errorf("%w: invalid user id", common.ErrorValidation)
	}

	count, err := s.repos.RefreshTokens(s.db).DeleteByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("error revoking refresh tokens: %w", err)
	}
	if count > 0 {
		s.logger.Info(ctx, "sessions revoked", "user_id", userID, "count", count)
	}
	return count > 0, nil
}

// PurgeExpired deletes refresh tokens whose expiry has passed and returns
// how many were removed.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	count, err := s.repos.RefreshTokens(s.db).DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("error purging expired refresh tokens: %w", err)
	}
	return count, nil
}

func (s *SessionService) generateTokenPair(ctx context.Context, userID string, db dbx.DBTX) (*TokenPair, error) {
	access, err := s.issuer.AccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: error minting access token: %w", common.ErrorInternal, err)
	}
	refresh, err := s.issuer.RefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: error minting refresh token: %w", common.ErrorInternal, err)
	}

	repo := s.repos.RefreshTokens(db)
	if err := repo.Create(ctx, userID, auth.HashToken(refresh), s.issuer.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("%w: error storing refresh token: %w", common.ErrorInternal, err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
