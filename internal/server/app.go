// Package server wires the document store together: configuration, the
// PostgreSQL database and its migrations, the services and the gRPC
// endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/wardminutes/internal/logging"
	"github.com/dmitrijs2005/wardminutes/internal/server/config"
	"github.com/dmitrijs2005/wardminutes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/wardminutes/internal/server/services"

	gs "github.com/dmitrijs2005/wardminutes/internal/server/grpc"
)

var (
	openDatabase   = repomanager.Open
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *gs.GRPCServer
}

// NewApp checks the PINs, connects to the database and applies migrations.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if err := cfg.PINs.Validate(); err != nil {
		return nil, fmt.Errorf("pins: %w", err)
	}

	db, err := openDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	ds := services.NewDocumentService(db, rm)
	as := services.NewAuthService(cfg)
	bs := services.NewBackupService(cfg)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		server: gs.NewGRPCServer(cfg.EndpointAddrGRPC, logger, ds, as, bs, cfg.SecretKey),
	}, nil
}

// Run serves until ctx is cancelled, then closes the database.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")
	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.WithoutCancel(ctx), "closing database", "error", err)
		}
	}()

	if err := app.server.Run(ctx); err != nil {
		return fmt.Errorf("grpc server: %w", err)
	}
	app.logger.Info(context.WithoutCancel(ctx), "app stopped")
	return nil
}
