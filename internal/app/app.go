// Package app wires the configuration into the shared dependencies every
// hosting shape needs and owns their lifecycle.
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

	"cardapio-backend/internal/asset"
	"cardapio-backend/internal/config"
	"cardapio-backend/internal/handler"
	"cardapio-backend/internal/logger"
	"cardapio-backend/internal/metrics"
	"cardapio-backend/internal/router"
	"cardapio-backend/internal/store"
	"cardapio-backend/internal/store/memstore"
	"cardapio-backend/internal/store/mongostore"

	"github.com/rs/zerolog"
)

// App is the container for the shared resources. It is not the HTTP
// server; Run serves whatever handler the caller built on top of it.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Store      store.Store
	Metrics    *metrics.Recorder
	Dispatcher *router.Dispatcher
}

// New builds the store, the handlers and the dispatcher. Assets may be
// nil, in which case uploads are accepted and discarded.
func New(cfg *config.Config, service string, assets asset.Storage) *App {
	log := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.Primary.Env,
		Service:     service,
	})
	rec := metrics.NewRecorder(service)
	st := OpenStore(cfg.Database, log)

	h := handler.New(handler.Options{
		Store:       st,
		Assets:      assets,
		Metrics:     rec,
		Business:    cfg.Business,
		AssetPrefix: cfg.Assets.PublicPrefix,
	})

	return &App{
		Config:     cfg,
		Logger:     log,
		Store:      st,
		Metrics:    rec,
		Dispatcher: router.NewDispatcher(h.Table(), rec),
	}
}

// OpenStore picks the persistence backend. The mongo store connects on
// first use, so a missing or unreachable database does not stop startup.
func OpenStore(cfg config.DatabaseConfig, log zerolog.Logger) store.Store {
	if cfg.Driver == "memory" {
		log.Warn().Msg("using in-memory store, data is lost on exit")
		return memstore.New()
	}
	if cfg.URI == "" {
		log.Warn().Msg("database uri is not configured, requests touching the store will fail")
	}
	return mongostore.New(mongostore.Options{
		URI:            cfg.URI,
		Database:       cfg.Name,
		ConnectTimeout: cfg.Timeout(),
	}, log)
}

// Run serves handler on addr until SIGINT or SIGTERM, then drains in-flight
// requests and closes the store.
func (a *App) Run(addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", addr).Str("env", a.Config.Primary.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	a.Logger.Info().Msg("shutting down")
	timeout := time.Duration(a.Config.Server.ShutdownTimeout) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return a.Shutdown(shutdownCtx, srv)
}

func (a *App) Shutdown(ctx context.Context, srv *http.Server) error {
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}
	if err := a.Store.Close(ctx); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	a.Logger.Info().Msg("server stopped")
	return nil
}
