package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"

	"github.com/armeria-vanguard/storefront-web/api/controllers"
	"github.com/armeria-vanguard/storefront-web/api/routes"
	"github.com/armeria-vanguard/storefront-web/internal/cart"
	"github.com/armeria-vanguard/storefront-web/internal/checkout"
	"github.com/armeria-vanguard/storefront-web/internal/gateway"
	"github.com/armeria-vanguard/storefront-web/internal/session"
	"github.com/armeria-vanguard/storefront-web/pkg/config"
	"github.com/armeria-vanguard/storefront-web/pkg/env"
	"github.com/armeria-vanguard/storefront-web/pkg/kvstore"
	"github.com/armeria-vanguard/storefront-web/pkg/logger"
	"github.com/armeria-vanguard/storefront-web/pkg/metrics"
	"github.com/armeria-vanguard/storefront-web/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "web"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "web",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	// Prices cross the wire as JSON numbers, matching the backend.
	decimal.MarshalJSONWithoutQuotes = true

	kv, closeStorage, pinger, err := newStorage(context.Background(), cfg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStorage(); err != nil {
			logg.Error(context.Background(), "error closing storage", err)
		}
	}()

	sessions := session.NewStore(kv)
	carts := cart.NewManager(kv)

	gw, err := gateway.NewClient(cfg.Backend, sessions, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create backend gateway", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(gw, sessions)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Backend.BaseURL,
		"storage": cfg.Storage.Driver,
	})
	logg.Info(ctx, "starting storefront web server")

	var pingers []controllers.Pinger
	if pinger != nil {
		pingers = append(pingers, pinger)
	}

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, registry, httpMetrics, carts, sessions, gw, checkoutService, pingers...),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "web server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// newStorage wires the configured kvstore driver.
func newStorage(ctx context.Context, cfg *config.Config) (kvstore.Store, func() error, controllers.Pinger, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		return kvstore.NewRedisStore(client), client.Close, client, nil
	case config.StorageDriverMemory:
		return kvstore.NewMemoryStore(), func() error { return nil }, nil, nil
	default:
		store, err := kvstore.NewFileStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, func() error { return nil }, nil, nil
	}
}
