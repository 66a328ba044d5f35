// Package maintenance stores the service history of assets.
package maintenance

import (
	"context"

	"github.com/dmitrijs2005/assettrack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, log *models.MaintenanceLog) (*models.MaintenanceLog, error)
	ListByAsset(ctx context.Context, assetID int64) ([]*models.MaintenanceLog, error)
}
