// Package assets stores tracked assets.
package assets

import (
	"context"

	"github.com/dmitrijs2005/assettrack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, asset *models.Asset) (*models.Asset, error)
	GetByID(ctx context.Context, id int64) (*models.Asset, error)
	List(ctx context.Context) ([]*models.Asset, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Asset, error)
	Delete(ctx context.Context, id int64) error
}
