package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/assettrack/internal/dbx"
	"github.com/dmitrijs2005/assettrack/internal/server/migrations"
	"github.com/dmitrijs2005/assettrack/internal/server/repositories/assets"
	"github.com/dmitrijs2005/assettrack/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/assettrack/internal/server/repositories/maintenance"
	"github.com/dmitrijs2005/assettrack/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends Postgres-backed repositories bound either
// to the pool or, inside WithTx, to a single transaction.
type PostgresRepositoryManager struct {
	db *sql.DB
	q  dbx.DBTX
	tx bool
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// OpenPostgres opens a pgx-backed pool and checks it answers.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// NewPostgresRepositoryManager wraps an open pool.
func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{db: db, q: db}
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return users.NewPostgresRepository(m.q)
}

func (m *PostgresRepositoryManager) Assets() assets.Repository {
	return assets.NewPostgresRepository(m.q)
}

func (m *PostgresRepositoryManager) Maintenance() maintenance.Repository {
	return maintenance.NewPostgresRepository(m.q)
}

func (m *PostgresRepositoryManager) Attachments() attachments.Repository {
	return attachments.NewPostgresRepository(m.q)
}

// WithTx starts a transaction unless the manager is already inside one, in
// which case fn joins it.
func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx RepositoryManager) error) error {
	if m.tx {
		return fn(ctx, m)
	}
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &PostgresRepositoryManager{db: m.db, q: tx, tx: true})
	})
}

// RunMigrations applies the embedded goose migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, ".")
}

func (m *PostgresRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}
