package assets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/assettrack/internal/common"
	"github.com/dmitrijs2005/assettrack/internal/dbx"
	"github.com/dmitrijs2005/assettrack/internal/server/models"
)

const assetColumns = `id, name, category, purchase_date, status, location, COALESCE(created_by, 0), created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*models.Asset, error) {
	a := &models.Asset{}
	var purchased sql.NullTime
	if err := row.Scan(&a.ID, &a.Name, &a.Category, &purchased, &a.Status, &a.Location, &a.CreatedBy, &a.CreatedAt); err != nil {
		return nil, err
	}
	if purchased.Valid {
		d := purchased.Time
		a.PurchaseDate = &d
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, asset *models.Asset) (*models.Asset, error) {
	query :=
		`INSERT INTO assets (name, category, purchase_date, status, location, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`

	var purchased sql.NullTime
	if asset.PurchaseDate != nil {
		purchased = sql.NullTime{Time: *asset.PurchaseDate, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		asset.Name, asset.Category, purchased, asset.Status, asset.Location, asset.CreatedBy,
	).Scan(&asset.ID, &asset.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return asset, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	a, err := scanAsset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Asset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
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

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status string) (*models.Asset, error) {
	query := `UPDATE assets SET status = $1 WHERE id = $2 RETURNING ` + assetColumns

	a, err := scanAsset(r.db.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// Delete removes the asset; maintenance logs and attachments go with it
// through ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
