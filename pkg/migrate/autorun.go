package migrate

import (
	"context"
	"fmt"

	"github.com/aulaeco/recicla-backend/pkg/config"
	"github.com/aulaeco/recicla-backend/pkg/db"
	"github.com/aulaeco/recicla-backend/pkg/db/models"
	"github.com/aulaeco/recicla-backend/pkg/logger"
)

// MaybeRun applies the schema automatically when the feature flag is enabled.
// The sqlite data file carries its full schema, so this runs on every boot of
// a default deployment.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.DB.AutoMigrate {
		return nil
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "path", cfg.DB.Path), "running schema auto-migration")
	}

	if err := client.DB().WithContext(ctx).AutoMigrate(&models.User{}, &models.Recycling{}); err != nil {
		return fmt.Errorf("auto-migrating schema: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "schema auto-migration completed")
	}
	return nil
}
