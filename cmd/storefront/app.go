package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rl1809/storefront/internal/adapter/api"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/config"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/logging"
	"github.com/rl1809/storefront/internal/metrics"
)

const syncDrainTimeout = 5 * time.Second

// app holds everything one process run needs.
type app struct {
	cfg     config.Config
	log     *slog.Logger
	metrics *metrics.Metrics

	tokens   *storage.TokenStore
	syncer   *service.Syncer
	cart     *service.CartService
	checkout *service.CheckoutService
	catalog  *service.CatalogService
	history  *service.OrderHistoryService

	closeStore func()
}

func newApp(ctx context.Context, cfg config.Config, quiet bool) (*app, error) {
	logging.Init(logging.Options{
		App:      cfg.App.Name,
		FilePath: cfg.App.LogFile,
		Level:    cfg.App.LogLevel,
		Quiet:    quiet,
	})
	log := logging.New("app")
	m := metrics.New()

	repo, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	log.Info("state store ready", "driver", cfg.Storage.Driver)

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logging.New("api"))
	tokens := storage.NewTokenStore(repo, logging.New("token"))
	syncer := service.NewSyncer(client, tokens, cfg.Sync.QueueSize, logging.New("sync"), m)
	cart := service.NewCartService(ctx, storage.NewCartStore(repo, logging.New("store")), syncer, logging.New("cart"), m)

	return &app{
		cfg:        cfg,
		log:        log,
		metrics:    m,
		tokens:     tokens,
		syncer:     syncer,
		cart:       cart,
		checkout:   service.NewCheckoutService(cart, client, tokens, logging.New("checkout"), m),
		catalog:    service.NewCatalogService(client),
		history:    service.NewOrderHistoryService(client, tokens),
		closeStore: closeStore,
	}, nil
}

// Close gives queued cart pushes a moment to go out, then releases the
// container and the store.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), syncDrainTimeout)
	defer cancel()
	a.syncer.Shutdown(ctx)
	a.cart.Close()
	a.closeStore()
	a.log.Info("shutdown complete")
}
