// Package server wires configuration, storage, key store and services
// together and runs the gRPC endpoint until the process is signalled.
package server

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/credvault/internal/logging"
	"github.com/dmitrijs2005/credvault/internal/server/config"

	gs "github.com/dmitrijs2005/credvault/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	deps   *Deps
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	deps, err := OpenDeps(ctx, c)
	if err != nil {
		return nil, err
	}

	return &App{config: c, logger: logger, deps: deps}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config, app.logger, gs.Services{
		Users:       app.deps.Users,
		Credentials: app.deps.Credentials,
		Secrets:     app.deps.Secrets,
		Snapshots:   app.deps.Snapshots,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"db_driver", app.config.DatabaseDriver,
		"keystore", app.config.KeyStoreBackend,
		"default_cipher", app.config.DefaultCipher)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.deps.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err.Error())
	}
}
