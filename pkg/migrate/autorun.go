package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/deadstock-backend/pkg/config"
	"github.com/angelmondragon/deadstock-backend/pkg/db"
	"github.com/angelmondragon/deadstock-backend/pkg/logger"
)

// MaybeRunDev applies the embedded migrations when running in dev with auto-migrate enabled,
// which keeps a local SQLite or Postgres mirror of the listing tables in step.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	dialect := Dialect(cfg.DB.Driver)
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": dialect})
	logg.Info(ctx, "running goose migrations (dev auto-run)")

	if err := RunEmbedded(ctx, sqlDB, dialect, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
