// Package app wires the configured store backend, the engines and the HTTP
// server together and runs them until the process is told to stop.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alphabot-ai/murmur/internal/accounts"
	"github.com/alphabot-ai/murmur/internal/auth"
	"github.com/alphabot-ai/murmur/internal/config"
	"github.com/alphabot-ai/murmur/internal/content"
	"github.com/alphabot-ai/murmur/internal/graph"
	httpapp "github.com/alphabot-ai/murmur/internal/http"
	"github.com/alphabot-ai/murmur/internal/logging"
	"github.com/alphabot-ai/murmur/internal/rate"
	"github.com/alphabot-ai/murmur/internal/store"
	"github.com/alphabot-ai/murmur/internal/store/file"
	"github.com/alphabot-ai/murmur/internal/store/postgres"
	"github.com/alphabot-ai/murmur/internal/store/sqlite"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	cfg    config.Config
	logger logging.Logger
	store  *store.Store
	server *httpapp.Server
}

// OpenBackend opens the store backend named by cfg.Store.
func OpenBackend(ctx context.Context, cfg config.Config) (store.Backend, error) {
	switch cfg.Store {
	case config.StoreFile:
		return file.Open(cfg.DataDir)
	case config.StoreSQLite:
		return sqlite.Open(cfg.DBPath)
	case config.StorePostgres:
		return postgres.Open(ctx, cfg.DatabaseDSN)
	case config.StoreMemory:
		return store.NewMemoryBackend(), nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func New(ctx context.Context, cfg config.Config, logger logging.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}
	st := store.New(backend)

	authSvc := auth.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL, cfg.ChallengeTTL)
	services := httpapp.Services{
		Auth:     authSvc,
		Accounts: accounts.NewService(st, authSvc),
		Graph:    graph.NewService(st),
		Content:  content.NewService(st),
	}
	server := httpapp.NewServer(services, rate.NewMemory(), cfg, logger)

	return &App{cfg: cfg, logger: logger, store: st, server: server}, nil
}

// Handler is the fully wrapped HTTP handler.
func (app *App) Handler() http.Handler {
	return app.server.Handler()
}

func (app *App) Close() error {
	return app.store.Close()
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves HTTP on the configured address until ctx is cancelled or the
// process receives SIGINT, SIGTERM or SIGQUIT, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(ctx, cancelFunc)

	httpServer := &http.Server{
		Addr:              app.cfg.Addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		app.logger.Info(ctx, "murmur listening", "addr", app.cfg.Addr, "store", app.cfg.Store)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
