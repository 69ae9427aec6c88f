package entity

import "math"

// RegionRecord holds the social indicators of one administrative region (RA)
// of the Federal District.
//
// PopulationDensity is derived from Population and AreaKm2. It is never read
// from a source; use WithDensity to (re)compute it.
type RegionRecord struct {
	SectorCode        string
	RegionName        string
	Population        int64
	AreaKm2           float64
	AverageIncome     float64
	ElderlyPercentage float64
	HouseholdCount    int64
	PopulationDensity float64
}

// Density returns inhabitants per square kilometre rounded to one decimal
// place. Exact halves round away from zero (0.25 -> 0.3), where pandas and
// numpy round to even (0.25 -> 0.2). The published seed has no such ties.
func Density(population int64, areaKm2 float64) float64 {
	return math.Round(float64(population)/areaKm2*10) / 10
}

// WithDensity returns a copy of r with PopulationDensity recomputed from
// Population and AreaKm2.
func (r RegionRecord) WithDensity() RegionRecord {
	r.PopulationDensity = Density(r.Population, r.AreaKm2)
	return r
}

// Validate checks the source fields of the record.
// A non-positive area is rejected because no density can be derived from it.
func (r *RegionRecord) Validate() error {
	if r.SectorCode == "" {
		return &ValidationError{Field: "sector_code", Message: "sector code is required"}
	}
	if r.RegionName == "" {
		return &ValidationError{Field: "region_name", Message: "region name is required"}
	}
	if r.Population < 0 {
		return &ValidationError{Field: "population", Message: "population must be non-negative"}
	}
	if r.AreaKm2 <= 0 || math.IsNaN(r.AreaKm2) || math.IsInf(r.AreaKm2, 0) {
		return &ValidationError{Field: "area_km2", Message: "area must be a positive finite number"}
	}
	if r.HouseholdCount < 0 {
		return &ValidationError{Field: "household_count", Message: "household count must be non-negative"}
	}
	return nil
}
