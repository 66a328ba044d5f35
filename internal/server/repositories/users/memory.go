package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/assettrack/internal/common"
	"github.com/dmitrijs2005/assettrack/internal/server/models"
)

// MemoryRepository keeps users in process memory. The uniqueness check and
// the insert happen under one lock, so concurrent registrations of the same
// username produce exactly one user.
type MemoryRepository struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]*models.User
	byUsername map[string]int64
	now        func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:     1,
		byID:       make(map[int64]*models.User),
		byUsername: make(map[string]int64),
		now:        time.Now,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[user.Username]; taken {
		return nil, common.ErrDuplicateUsername
	}

	stored := *user
	stored.ID = r.nextID
	stored.CreatedAt = r.now().UTC()
	r.nextID++

	r.byID[stored.ID] = &stored
	r.byUsername[stored.Username] = stored.ID

	out := stored
	return &out, nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *r.byID[id]
	return &out, nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

// Delete removes a user. Only the in-memory store offers it; tests use it
// to check that tokens of removed users stop resolving.
func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byUsername, u.Username)
	delete(r.byID, id)
	return nil
}
