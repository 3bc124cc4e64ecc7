package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/listora/listora/internal/common"
	"github.com/listora/listora/internal/dbx"
	"github.com/listora/listora/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new refresh token hash for userID expiring at now+validity.
func (r *PostgresRepository) Create(ctx context.Context, userID string, tokenHash string, validity time.Duration) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, tokenHash, time.Now().Add(validity)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByTokenHash returns the refresh token row for the given digest.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`
	token := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).
		Scan(&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

// GetByUserID returns every stored refresh token belonging to userID,
// oldest first.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) ([]*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM refresh_tokens
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	tokens := make([]*models.RefreshToken, 0)
	for rows.Next() {
		token := &models.RefreshToken{}
		if err := rows.Scan(&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tokens, nil
}

// DeleteByTokenHash removes the refresh token with the given digest and
// reports whether a record existed. Under concurrent rotation only one
// caller observes true; the DELETE itself is the atomicity point.
func (r *PostgresRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) (bool, error) {
	query := `DELETE FROM refresh_tokens WHERE token_hash = $1`
	res, err := r.db.ExecContext(ctx, query, tokenHash)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected > 0, nil
}

// DeleteByUserID removes every refresh token belonging to userID.
func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return affected, nil
}

// DeleteExpired sweeps every refresh token whose expiry has passed.
func (r *PostgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE expires_at <= now()`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return affected, nil
}
