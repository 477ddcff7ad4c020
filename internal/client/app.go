package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-ledger-sync/internal/adapter"
	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/retry"
	"github.com/MKhiriev/go-ledger-sync/internal/service"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/internal/workers"
)

// App is the composition root of the sync client: local store, remote
// transport, orchestrator, and background workers, constructed once at
// process start and wired by reference.
type App struct {
	cfg      *config.ClientConfig
	logger   *logger.Logger
	storages *store.ClientStorages
	sync     *service.SyncService
	workers  *workers.Workers
}

func NewApp(cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	ctx := log.WithContext(context.Background())

	storages, err := store.NewClientStorages(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	// the stored credential doubles as the transport token source
	remote, err := adapter.NewHTTPRemoteAPI(cfg.Adapter, storages.Session, log)
	if err != nil {
		storages.Close()
		return nil, fmt.Errorf("create remote adapter: %w", err)
	}

	syncService := service.NewSyncService(storages, remote, retry.NewConfig(cfg.Retry), cfg.Workers.PullLimit, log)

	monitor := workers.NewConnectivityMonitor(remote, syncService, cfg.Workers.ConnectivityInterval, log)
	syncJob := workers.NewSyncJob(syncService, cfg.Workers.SyncInterval, log)

	return &App{
		cfg:      cfg,
		logger:   log,
		storages: storages,
		sync:     syncService,
		workers:  workers.NewWorkers(monitor, syncJob),
	}, nil
}

// Sync exposes the orchestrator to embedding callers (UI layers, CLIs).
func (a *App) Sync() *service.SyncService {
	return a.sync
}

// Run starts the background workers, performs an initial reconciliation, and
// blocks until the process receives SIGINT or SIGTERM. Shutdown is explicit:
// workers are cancelled, in-flight background syncs are drained, then the
// store is closed.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = a.logger.WithContext(ctx)

	a.logger.Info().
		Str("func", "App.Run").
		Str("base_url", a.cfg.Adapter.BaseURL).
		Msg("sync client started")

	result := a.sync.SyncAll(ctx)
	if !result.Success {
		a.logger.Warn().
			Str("func", "App.Run").
			Int("errors", len(result.Errors)).
			Msg("initial sync incomplete, pending changes will be retried")
	}

	a.workers.Run(ctx)

	<-ctx.Done()
	a.logger.Info().Str("func", "App.Run").Msg("shutdown signal received")

	a.workers.Wait()
	a.sync.Wait()

	if err := a.storages.Close(); err != nil {
		return fmt.Errorf("close local storage: %w", err)
	}
	return nil
}
