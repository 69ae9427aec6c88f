package db

import (
	"context"
	"database/sql"
	"fmt"
)

// MigrateUp creates the region indicators table and its indexes.
// Statements are idempotent so every run may call it.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS region_social_indicators (
    sector_code         VARCHAR(20) PRIMARY KEY,
    region_name         TEXT NOT NULL,
    population          BIGINT NOT NULL CHECK (population >= 0),
    area_km2            DOUBLE PRECISION NOT NULL CHECK (area_km2 > 0),
    average_income      DOUBLE PRECISION NOT NULL,
    elderly_percentage  DOUBLE PRECISION NOT NULL,
    household_count     BIGINT NOT NULL CHECK (household_count >= 0),
    population_density  DOUBLE PRECISION NOT NULL,
    loaded_at           TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return fmt.Errorf("create region_social_indicators: %w", err)
	}

	indexes := []string{
		// Lookups by region name from dashboards
		`CREATE INDEX IF NOT EXISTS idx_region_social_indicators_region_name ON region_social_indicators(region_name)`,
	}
	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}
