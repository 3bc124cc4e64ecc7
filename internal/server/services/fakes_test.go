package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/listora/listora/internal/common"
	"github.com/listora/listora/internal/dbx"
	"github.com/listora/listora/internal/logging"
	"github.com/listora/listora/internal/server/models"
	refreshtokensrepo "github.com/listora/listora/internal/server/repositories/refreshtokens"
	usersrepo "github.com/listora/listora/internal/server/repositories/users"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeUsersRepo is an in-memory users.Repository with the same conflict and
// not-found semantics as the Postgres implementation.
type fakeUsersRepo struct {
	mu        sync.Mutex
	byID      map[string]*models.User
	updateErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: make(map[string]*models.User)}
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == user.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.byID[user.ID] = &stored
	return user, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Update(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[user.ID]; !ok {
		return common.ErrorNotFound
	}
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeRefreshRepo is an in-memory refreshtokens.Repository keyed by digest.
type fakeRefreshRepo struct {
	mu        sync.Mutex
	byHash    map[string]*models.RefreshToken
	createErr error
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{byHash: make(map[string]*models.RefreshToken)}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, tokenHash string, validity time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.byHash[tokenHash] = &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(validity),
		CreatedAt: time.Now(),
	}
	return nil
}

func (f *fakeRefreshRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.byHash[tokenHash]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRefreshRepo) GetByUserID(ctx context.Context, userID string) ([]*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.RefreshToken, 0)
	for _, t := range f.byHash {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRefreshRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byHash[tokenHash]; !ok {
		return false, nil
	}
	delete(f.byHash, tokenHash)
	return true, nil
}

func (f *fakeRefreshRepo) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for hash, t := range f.byHash {
		if t.UserID == userID {
			delete(f.byHash, hash)
			count++
		}
	}
	return count, nil
}

func (f *fakeRefreshRepo) DeleteExpired(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	now := time.Now()
	for hash, t := range f.byHash {
		if t.ExpiresAt.Before(now) {
			delete(f.byHash, hash)
			count++
		}
	}
	return count, nil
}

// expire backdates a stored record so refresh hits the expiry branch.
func (f *fakeRefreshRepo) expire(tokenHash string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.byHash[tokenHash]; ok {
		t.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

// fakeRepoManager serves the fakes regardless of the DBTX handed in.
type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), r: newFakeRefreshRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.r
}
