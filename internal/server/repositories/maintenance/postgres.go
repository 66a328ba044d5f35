package maintenance

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/assettrack/internal/common"
	"github.com/dmitrijs2005/assettrack/internal/dbx"
	"github.com/dmitrijs2005/assettrack/internal/server/models"
	"github.com/jackc/pgx/v5/pgtype"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a log. Cost travels as its decimal string so the NUMERIC
// column never sees a float.
func (r *PostgresRepository) Create(ctx context.Context, log *models.MaintenanceLog) (*models.MaintenanceLog, error) {
	query :=
		`INSERT INTO maintenance_logs (asset_id, service_date, technician_name, description, cost, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		log.AssetID, log.ServiceDate, log.TechnicianName, log.Description, log.Cost.String(), log.CreatedBy,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return log, nil
}

func (r *PostgresRepository) ListByAsset(ctx context.Context, assetID int64) ([]*models.MaintenanceLog, error) {
	query :=
		`SELECT id, asset_id, service_date, technician_name, description,
		        cost, COALESCE(created_by, 0), created_at
		 FROM maintenance_logs
		 WHERE asset_id = $1
		 ORDER BY service_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.MaintenanceLog, 0)
	for rows.Next() {
		l := &models.MaintenanceLog{}
		var cost pgtype.Numeric
		if err := rows.Scan(&l.ID, &l.AssetID, &l.ServiceDate, &l.TechnicianName, &l.Description, &cost, &l.CreatedBy, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if l.Cost, err = models.CentsFromNumeric(cost); err != nil {
			return nil, fmt.Errorf("db error: cost of log %d: %w", l.ID, err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
