package migrate

import (
	"context"
	"fmt"

	"github.com/bistrohub/ordering/pkg/config"
	"github.com/bistrohub/ordering/pkg/db"
	"github.com/bistrohub/ordering/pkg/logger"
)

// MaybeRunDev applies the catalog schema on boot for local development. It only
// acts when the catalog is database-backed, the app runs in dev mode and the
// auto-migrate flag is set.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !shouldAutoRun(cfg) || client == nil {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	logg.Info(ctx, "applying catalog migrations")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "catalog migrations applied")
	return nil
}

func shouldAutoRun(cfg *config.Config) bool {
	if cfg == nil {
		return false
	}
	return cfg.Catalog.UsesDatabase() && cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate
}
