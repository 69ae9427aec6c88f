// Package analysis summarises region datasets with gota dataframes.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"censo-df/internal/domain/entity"

	"github.com/go-gota/gota/dataframe"
)

// Profile is the summary printed after a run.
type Profile struct {
	Rows            int
	Columns         int
	ColumnNames     []string
	TotalPopulation int64
	TotalHouseholds int64
	MeanDensity     float64
	MaxDensity      float64
	MinDensity      float64
	DensestRegion   string
	SparsestRegion  string
	MeanIncome      float64
}

// ErrNoRows is returned when there is nothing to profile.
var ErrNoRows = errors.New("dataset has no rows")

// frameRow mirrors the written columns. gota only infers int and float64,
// so counts are narrowed to int.
type frameRow struct {
	SectorCode        string  `dataframe:"sector_code"`
	RegionName        string  `dataframe:"region_name"`
	Population        int     `dataframe:"population"`
	AreaKm2           float64 `dataframe:"area_km2"`
	AverageIncome     float64 `dataframe:"average_income"`
	ElderlyPercentage float64 `dataframe:"elderly_percentage"`
	HouseholdCount    int     `dataframe:"household_count"`
	PopulationDensity float64 `dataframe:"population_density"`
}

// Frame loads rows into a dataframe with one column per written field.
func Frame(rows []entity.RegionRecord) (dataframe.DataFrame, error) {
	if len(rows) == 0 {
		return dataframe.DataFrame{}, ErrNoRows
	}
	data := make([]frameRow, len(rows))
	for i, r := range rows {
		data[i] = frameRow{
			SectorCode:        r.SectorCode,
			RegionName:        r.RegionName,
			Population:        int(r.Population),
			AreaKm2:           r.AreaKm2,
			AverageIncome:     r.AverageIncome,
			ElderlyPercentage: r.ElderlyPercentage,
			HouseholdCount:    int(r.HouseholdCount),
			PopulationDensity: r.PopulationDensity,
		}
	}
	df := dataframe.LoadStructs(data)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("load dataframe: %w", df.Err)
	}
	return df, nil
}

// Summarize profiles rows.
func Summarize(rows []entity.RegionRecord) (*Profile, error) {
	df, err := Frame(rows)
	if err != nil {
		return nil, err
	}

	density := df.Col("population_density")
	p := &Profile{
		Rows:            df.Nrow(),
		Columns:         df.Ncol(),
		ColumnNames:     df.Names(),
		TotalPopulation: sumInts(df.Col("population").Float()),
		TotalHouseholds: sumInts(df.Col("household_count").Float()),
		MeanDensity:     round1(density.Mean()),
		MaxDensity:      density.Max(),
		MinDensity:      density.Min(),
		MeanIncome:      round1(df.Col("average_income").Mean()),
	}

	sorted := df.Arrange(dataframe.RevSort("population_density"))
	if sorted.Err != nil {
		return nil, fmt.Errorf("sort by density: %w", sorted.Err)
	}
	names := sorted.Col("region_name").Records()
	p.DensestRegion = names[0]
	p.SparsestRegion = names[len(names)-1]

	return p, nil
}

func sumInts(values []float64) int64 {
	var total int64
	for _, v := range values {
		total += int64(v)
	}
	return total
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
