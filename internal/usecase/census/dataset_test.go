package census

import (
	"testing"

	"censo-df/internal/dataset"
	"censo-df/internal/domain/entity"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDataset_FixtureDensities(t *testing.T) {
	rows := BuildDataset(dataset.DemoRegions())

	want := map[string]float64{
		"Plano Piloto": 454.4,
		"Taguatinga":   1828.8,
		"Ceilândia":    1729.6,
		"Samambaia":    2423.2,
		"Águas Claras": 4307.5,
		"Sobradinho":   341.7,
		"Planaltina":   127.1,
		"Brazlândia":   112.7,
		"Paranoá":      76.8,
		"Gama":         472.5,
	}
	require.Len(t, rows, len(want))
	for _, r := range rows {
		assert.Equal(t, want[r.RegionName], r.PopulationDensity, r.RegionName)
	}
}

func TestBuildDataset_DensityInvariant(t *testing.T) {
	for _, r := range BuildDataset(dataset.DemoRegions()) {
		assert.Equal(t, entity.Density(r.Population, r.AreaKm2), r.PopulationDensity, r.RegionName)
	}
}

func TestBuildDataset_Deterministic(t *testing.T) {
	first := BuildDataset(dataset.DemoRegions())
	second := BuildDataset(dataset.DemoRegions())

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("BuildDataset not deterministic (-first +second):\n%s", diff)
	}
}

func TestBuildDataset_DoesNotModifySeed(t *testing.T) {
	seed := []entity.RegionRecord{
		{SectorCode: "1", RegionName: "A", Population: 100, AreaKm2: 3, PopulationDensity: 999},
	}

	rows := BuildDataset(seed)

	assert.Equal(t, 999.0, seed[0].PopulationDensity)
	assert.Equal(t, 33.3, rows[0].PopulationDensity)
}

func TestBuildDataset_RecomputesStaleDensity(t *testing.T) {
	seed := []entity.RegionRecord{
		{SectorCode: "1", RegionName: "A", Population: 1000, AreaKm2: 10, PopulationDensity: 1},
	}

	assert.Equal(t, 100.0, BuildDataset(seed)[0].PopulationDensity)
}

func TestBuildDataset_DistinctRegionNames(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range BuildDataset(dataset.DemoRegions()) {
		assert.False(t, seen[r.RegionName], "duplicate %q", r.RegionName)
		seen[r.RegionName] = true
	}
}

func TestValidateDataset(t *testing.T) {
	valid := entity.RegionRecord{SectorCode: "1", RegionName: "A", Population: 10, AreaKm2: 1}

	tests := []struct {
		name    string
		rows    []entity.RegionRecord
		wantErr bool
	}{
		{name: "fixture", rows: BuildDataset(dataset.DemoRegions()), wantErr: false},
		{name: "single row", rows: []entity.RegionRecord{valid}, wantErr: false},
		{name: "empty", rows: nil, wantErr: true},
		{name: "zero area", rows: []entity.RegionRecord{{SectorCode: "1", RegionName: "A", Population: 10}}, wantErr: true},
		{name: "missing name", rows: []entity.RegionRecord{{SectorCode: "1", Population: 10, AreaKm2: 1}}, wantErr: true},
		{name: "duplicate sector code", rows: []entity.RegionRecord{valid, valid}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDataset(tt.rows)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDataset)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateDataset_WrapsValidationError(t *testing.T) {
	err := ValidateDataset([]entity.RegionRecord{{SectorCode: "1", RegionName: "A", Population: -1, AreaKm2: 1}})

	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "population", vErr.Field)
	assert.ErrorIs(t, err, entity.ErrValidationFailed)
}
