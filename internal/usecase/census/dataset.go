package census

import (
	"fmt"

	"censo-df/internal/domain/entity"
)

// BuildDataset returns a copy of seed with PopulationDensity derived on
// every row. seed is not modified.
func BuildDataset(seed []entity.RegionRecord) []entity.RegionRecord {
	out := make([]entity.RegionRecord, len(seed))
	for i, r := range seed {
		out[i] = r.WithDensity()
	}
	return out
}

// ValidateDataset checks every row and rejects empty datasets and
// duplicate sector codes.
func ValidateDataset(rows []entity.RegionRecord) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: no rows", ErrInvalidDataset)
	}
	seen := make(map[string]int, len(rows))
	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			return fmt.Errorf("%w: row %d: %w", ErrInvalidDataset, i, err)
		}
		if prev, ok := seen[rows[i].SectorCode]; ok {
			return fmt.Errorf("%w: rows %d and %d share sector code %s", ErrInvalidDataset, prev, i, rows[i].SectorCode)
		}
		seen[rows[i].SectorCode] = i
	}
	return nil
}
