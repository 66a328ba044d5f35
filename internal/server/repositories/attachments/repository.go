// Package attachments stores metadata for documents kept in object
// storage. Every lookup is scoped to the owning asset.
package attachments

import (
	"context"

	"github.com/dmitrijs2005/assettrack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error)
	GetByID(ctx context.Context, assetID, id int64) (*models.Attachment, error)
	ListByAsset(ctx context.Context, assetID int64) ([]*models.Attachment, error)
	MarkUploaded(ctx context.Context, assetID, id int64) (*models.Attachment, error)
}
