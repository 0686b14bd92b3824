package database

import (
	"context"
	"fmt"

	models "trading-reports/database/models_pkg"
)

// InitDB creates every record table that does not exist yet. Running it
// against an up-to-date schema is a no-op.
func (d *Database) InitDB(ctx context.Context) error {
	d.log.Info().Msg("🔄 Starting database schema initialization...")

	tables := models.All()
	if err := d.db.WithContext(ctx).AutoMigrate(tables...); err != nil {
		d.log.Error().Err(err).Msg("❌ Database schema initialization failed")
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	d.log.Info().Int("tables", len(tables)).Msg("✅ Database schema initialization completed successfully")
	return nil
}
