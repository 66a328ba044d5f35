package maintenance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/assettrack/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]*models.MaintenanceLog
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, items: make(map[int64]*models.MaintenanceLog), now: time.Now}
}

func (r *MemoryRepository) Create(ctx context.Context, log *models.MaintenanceLog) (*models.MaintenanceLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *log
	stored.ID = r.nextID
	stored.CreatedAt = r.now().UTC()
	r.nextID++
	r.items[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *MemoryRepository) ListByAsset(ctx context.Context, assetID int64) ([]*models.MaintenanceLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.MaintenanceLog, 0)
	for _, l := range r.items {
		if l.AssetID == assetID {
			c := *l
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ServiceDate.Equal(out[j].ServiceDate) {
			return out[i].ServiceDate.After(out[j].ServiceDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// DeleteByAsset drops every log of an asset, standing in for the
// ON DELETE CASCADE of the Postgres schema.
func (r *MemoryRepository) DeleteByAsset(assetID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, l := range r.items {
		if l.AssetID == assetID {
			delete(r.items, id)
		}
	}
}
