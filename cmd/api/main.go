package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bistrohub/ordering/api/routes"
	"github.com/bistrohub/ordering/internal/catalog"
	"github.com/bistrohub/ordering/internal/orders"
	"github.com/bistrohub/ordering/internal/persistence"
	"github.com/bistrohub/ordering/internal/sessions"
	"github.com/bistrohub/ordering/internal/wizard"
	"github.com/bistrohub/ordering/pkg/config"
	"github.com/bistrohub/ordering/pkg/db"
	"github.com/bistrohub/ordering/pkg/i18n"
	"github.com/bistrohub/ordering/pkg/instance"
	"github.com/bistrohub/ordering/pkg/logger"
	"github.com/bistrohub/ordering/pkg/metrics"
	"github.com/bistrohub/ordering/pkg/migrate"
	"github.com/bistrohub/ordering/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	wizardMetrics := metrics.NewWizardMetrics(registry)

	provider, closeProvider, err := menuProvider(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap catalog source", err)
		os.Exit(1)
	}
	defer closeProvider()

	catalogCache, err := catalog.NewCache(provider, logg, wizardMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create catalog cache", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gateway, err := orders.NewHTTPGateway(cfg.Orders.BaseURL, orders.WithTimeout(cfg.Orders.Timeout))
	if err != nil {
		logg.Error(ctx, "failed to create order gateway", err)
		os.Exit(1)
	}

	var translator i18n.NameTranslator
	if cfg.I18N.DictionaryPath != "" {
		dict, err := i18n.LoadDictionary(cfg.I18N.DictionaryPath)
		if err != nil {
			logg.Error(ctx, "failed to load display name dictionary", err)
			os.Exit(1)
		}
		translator = dict
	}

	storeOpts := persistence.Options{CartTTL: cfg.Session.CartTTL, TrackingTTL: cfg.Session.TrackingTTL}
	wizards, err := sessions.NewRegistry(func(sessionID string) (*wizard.Controller, error) {
		store, err := persistence.New(redisClient, sessionID, storeOpts, logg)
		if err != nil {
			return nil, err
		}
		return wizard.NewController(wizard.Deps{
			Catalog:    catalogCache,
			Store:      store,
			Gateway:    gateway,
			Translator: translator,
			Logger:     logg,
			Metrics:    wizardMetrics,
		})
	}, logg)
	if err != nil {
		logg.Error(ctx, "failed to create session registry", err)
		os.Exit(1)
	}
	go wizards.RunJanitor(ctx, cfg.Session.JanitorInterval, cfg.Session.IdleTimeout)

	if err := catalogCache.EnsureLoaded(ctx); err != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{"error": err.Error()}), "catalog warmup incomplete")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(serverCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, redisClient, catalogCache, wizards, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(serverCtx, "graceful shutdown failed", err)
		}
	}
}

// menuProvider picks the catalog source. The returned func releases it.
func menuProvider(ctx context.Context, cfg *config.Config, logg *logger.Logger) (catalog.MenuProvider, func(), error) {
	if !cfg.Catalog.UsesDatabase() {
		provider, err := catalog.NewHTTPProvider(cfg.Catalog.BaseURL, catalog.WithTimeout(cfg.Catalog.Timeout))
		return provider, func() {}, err
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}
	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		closeDB()
		return nil, nil, err
	}
	repo, err := catalog.NewRepository(dbClient.DB())
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return repo, closeDB, nil
}
