package assets

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/assettrack/internal/common"
	"github.com/dmitrijs2005/assettrack/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]*models.Asset
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, items: make(map[int64]*models.Asset), now: time.Now}
}

func clone(a *models.Asset) *models.Asset {
	out := *a
	if a.PurchaseDate != nil {
		d := *a.PurchaseDate
		out.PurchaseDate = &d
	}
	return &out
}

func (r *MemoryRepository) Create(ctx context.Context, asset *models.Asset) (*models.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := clone(asset)
	stored.ID = r.nextID
	stored.CreatedAt = r.now().UTC()
	r.nextID++
	r.items[stored.ID] = stored

	return clone(stored), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(a), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Asset, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, clone(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id int64, status string) (*models.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a.Status = status
	return clone(a), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.items, id)
	return nil
}
