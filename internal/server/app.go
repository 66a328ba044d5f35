// Package server wires the configured storage, auth core and services into
// the HTTP and gRPC servers and runs them until a signal arrives.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/assettrack/internal/cryptox"
	"github.com/dmitrijs2005/assettrack/internal/logging"
	"github.com/dmitrijs2005/assettrack/internal/server/auth"
	"github.com/dmitrijs2005/assettrack/internal/server/config"
	gs "github.com/dmitrijs2005/assettrack/internal/server/grpc"
	"github.com/dmitrijs2005/assettrack/internal/server/httpserver"
	"github.com/dmitrijs2005/assettrack/internal/server/identity"
	"github.com/dmitrijs2005/assettrack/internal/server/objectstore"
	"github.com/dmitrijs2005/assettrack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/assettrack/internal/server/services"
)

var (
	openPostgres = repomanager.OpenPostgres

	newPresigner = func(ctx context.Context, cfg objectstore.Config) (objectstore.Presigner, error) {
		return objectstore.NewS3Presigner(ctx, cfg)
	}
)

type App struct {
	config *config.Config
	logger logging.Logger

	store        repomanager.RepositoryManager
	userService  *services.UserService
	assetService *services.AssetService
	resolver     *identity.Resolver
}

// NewApp builds every component from c. Logs go to out.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	logger := logging.New(out, c.Env, c.LogLevel)

	store, err := newStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := store.RunMigrations(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	hasher, err := cryptox.NewHasher(cryptox.Config{
		Algorithm:  cryptox.Algorithm(c.PasswordHashAlgorithm),
		BcryptCost: c.BcryptCost,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	codec, err := auth.NewTokenCodec([]byte(c.SecretKey))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	presigner, err := newPresigner(ctx, objectstore.Config{
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
		TTL:          c.S3PresignTTL,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	return &App{
		config:       c,
		logger:       logger,
		store:        store,
		userService:  services.NewUserService(store, hasher, codec, c.AccessTokenValidityDuration, logger),
		assetService: services.NewAssetService(store, presigner, logger),
		resolver:     identity.NewResolver(codec, store.Users(), logger),
	}, nil
}

func newStore(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.Storage {
	case config.StorageMemory:
		return repomanager.NewMemoryRepositoryManager(), nil
	default:
		db, err := openPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return repomanager.NewPostgresRepositoryManager(db), nil
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpserver.NewRouter(httpserver.Dependencies{
		Users:          app.userService,
		Assets:         app.assetService,
		Resolver:       app.resolver,
		Store:          app.store,
		Logger:         app.logger,
		AllowedOrigins: app.config.CORSAllowedOrigins,
	})

	s := httpserver.NewServer(app.config.HTTPAddr, router, app.logger, app.config.ShutdownTimeout)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.userService, app.resolver)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves HTTP and, when an address is configured, gRPC. It returns once
// ctx is cancelled, a signal arrives or either server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Env, "storage", app.config.Storage)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.GRPCAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return app.store.Close()
}
