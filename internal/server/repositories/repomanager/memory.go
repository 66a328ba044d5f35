package repomanager

import (
	"context"

	"github.com/dmitrijs2005/assettrack/internal/server/repositories/assets"
	"github.com/dmitrijs2005/assettrack/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/assettrack/internal/server/repositories/maintenance"
	"github.com/dmitrijs2005/assettrack/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. Each
// repository is safe for concurrent use on its own, but WithTx gives no
// atomicity across repositories: a failing fn leaves earlier writes in place.
type MemoryRepositoryManager struct {
	users       *users.MemoryRepository
	assets      *cascadingAssets
	maintenance *maintenance.MemoryRepository
	attachments *attachments.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	m := &MemoryRepositoryManager{
		users:       users.NewMemoryRepository(),
		maintenance: maintenance.NewMemoryRepository(),
		attachments: attachments.NewMemoryRepository(),
	}
	m.assets = &cascadingAssets{MemoryRepository: assets.NewMemoryRepository(), m: m}
	return m
}

func (m *MemoryRepositoryManager) Users() users.Repository             { return m.users }
func (m *MemoryRepositoryManager) Assets() assets.Repository           { return m.assets }
func (m *MemoryRepositoryManager) Maintenance() maintenance.Repository { return m.maintenance }
func (m *MemoryRepositoryManager) Attachments() attachments.Repository { return m.attachments }

// UserStore exposes the concrete user store for tests that need Delete.
func (m *MemoryRepositoryManager) UserStore() *users.MemoryRepository { return m.users }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx RepositoryManager) error) error {
	return fn(ctx, m)
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Ping(ctx context.Context) error    { return ctx.Err() }
func (m *MemoryRepositoryManager) Close() error                      { return nil }

// cascadingAssets drops an asset's logs and attachments along with it.
type cascadingAssets struct {
	*assets.MemoryRepository
	m *MemoryRepositoryManager
}

func (c *cascadingAssets) Delete(ctx context.Context, id int64) error {
	if err := c.MemoryRepository.Delete(ctx, id); err != nil {
		return err
	}
	c.m.maintenance.DeleteByAsset(id)
	c.m.attachments.DeleteByAsset(id)
	return nil
}
