// Package repomanager vends the repositories of one storage backend and
// runs units of work against them.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/assettrack/internal/server/repositories/assets"
	"github.com/dmitrijs2005/assettrack/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/assettrack/internal/server/repositories/maintenance"
	"github.com/dmitrijs2005/assettrack/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error

	Users() users.Repository
	Assets() assets.Repository
	Maintenance() maintenance.Repository
	Attachments() attachments.Repository

	// WithTx runs fn with a manager whose repositories share one
	// transaction. Returning an error rolls the work back.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx RepositoryManager) error) error

	Close() error
}
