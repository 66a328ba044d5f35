package attachments

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
	items  map[int64]*models.Attachment
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, items: make(map[int64]*models.Attachment), now: time.Now}
}

func (r *MemoryRepository) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *a
	stored.ID = r.nextID
	stored.CreatedAt = r.now().UTC()
	r.nextID++
	r.items[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *MemoryRepository) lookup(assetID, id int64) (*models.Attachment, bool) {
	a, ok := r.items[id]
	if !ok || a.AssetID != assetID {
		return nil, false
	}
	return a, true
}

func (r *MemoryRepository) GetByID(ctx context.Context, assetID, id int64) (*models.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.lookup(assetID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *a
	return &out, nil
}

func (r *MemoryRepository) ListByAsset(ctx context.Context, assetID int64) ([]*models.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Attachment, 0)
	for _, a := range r.items {
		if a.AssetID == assetID {
			c := *a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) MarkUploaded(ctx context.Context, assetID, id int64) (*models.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.lookup(assetID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	a.UploadStatus = models.UploadStatusUploaded
	out := *a
	return &out, nil
}

// DeleteByAsset mirrors ON DELETE CASCADE for the in-memory store.
func (r *MemoryRepository) DeleteByAsset(assetID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.items {
		if a.AssetID == assetID {
			delete(r.items, id)
		}
	}
}
