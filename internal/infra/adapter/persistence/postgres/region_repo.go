package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"censo-df/internal/domain/entity"
	"censo-df/internal/repository"
)

type RegionRepo struct{ db *sql.DB }

func NewRegionRepo(db *sql.DB) repository.RegionRepository {
	return &RegionRepo{db: db}
}

// ReplaceAll deletes every stored row and inserts rows in one transaction.
func (repo *RegionRepo) ReplaceAll(ctx context.Context, rows []entity.RegionRecord) (err error) {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ReplaceAll: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM region_social_indicators`); err != nil {
		return fmt.Errorf("ReplaceAll: delete: %w", err)
	}

	const query = `
INSERT INTO region_social_indicators
    (sector_code, region_name, population, area_km2, average_income,
     elderly_percentage, household_count, population_density)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("ReplaceAll: prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range rows {
		r := rows[i]
		if _, err = stmt.ExecContext(ctx,
			r.SectorCode, r.RegionName, r.Population, r.AreaKm2, r.AverageIncome,
			r.ElderlyPercentage, r.HouseholdCount, r.PopulationDensity,
		); err != nil {
			return fmt.Errorf("ReplaceAll: insert %s: %w", r.SectorCode, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ReplaceAll: commit: %w", err)
	}
	return nil
}

func (repo *RegionRepo) List(ctx context.Context) ([]entity.RegionRecord, error) {
	const query = `
SELECT sector_code, region_name, population, area_km2, average_income,
       elderly_percentage, household_count, population_density
FROM region_social_indicators
ORDER BY sector_code ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []entity.RegionRecord
	for rows.Next() {
		var r entity.RegionRecord
		if err := rows.Scan(
			&r.SectorCode, &r.RegionName, &r.Population, &r.AreaKm2, &r.AverageIncome,
			&r.ElderlyPercentage, &r.HouseholdCount, &r.PopulationDensity,
		); err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return out, nil
}
