package repository

import (
	"context"

	"censo-df/internal/domain/entity"
)

// RegionRepository stores the region indicators table.
type RegionRepository interface {
	// ReplaceAll atomically replaces the stored rows with rows.
	ReplaceAll(ctx context.Context, rows []entity.RegionRecord) error
	// List returns the stored rows ordered by sector code.
	List(ctx context.Context) ([]entity.RegionRecord, error)
}
