package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/assettrack/internal/common"
	"github.com/dmitrijs2005/assettrack/internal/dbx"
	"github.com/dmitrijs2005/assettrack/internal/server/models"
)

const attachmentColumns = `id, asset_id, file_name, storage_key, content_type, upload_status, COALESCE(created_by, 0), created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttachment(row rowScanner) (*models.Attachment, error) {
	a := &models.Attachment{}
	err := row.Scan(&a.ID, &a.AssetID, &a.FileName, &a.StorageKey, &a.ContentType, &a.UploadStatus, &a.CreatedBy, &a.CreatedAt)
	return a, err
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	query :=
		`INSERT INTO attachments (asset_id, file_name, storage_key, content_type, upload_status, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		a.AssetID, a.FileName, a.StorageKey, a.ContentType, a.UploadStatus, a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, assetID, id int64) (*models.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM attachments WHERE asset_id = $1 AND id = $2`

	a, err := scanAttachment(r.db.QueryRowContext(ctx, query, assetID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) ListByAsset(ctx context.Context, assetID int64) ([]*models.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM attachments WHERE asset_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Attachment, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) MarkUploaded(ctx context.Context, assetID, id int64) (*models.Attachment, error) {
	query := `UPDATE attachments SET upload_status = $1 WHERE asset_id = $2 AND id = $3 RETURNING ` + attachmentColumns

	a, err := scanAttachment(r.db.QueryRowContext(ctx, query, models.UploadStatusUploaded, assetID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}
