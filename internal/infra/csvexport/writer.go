// Package csvexport writes region datasets as CSV files.
//
// Files are UTF-8 with a byte order mark so spreadsheet tools detect the
// encoding, carry a header row and no index column.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"censo-df/internal/domain/entity"
)

// Header is the column order of every written file.
var Header = []string{
	"sector_code",
	"region_name",
	"population",
	"area_km2",
	"average_income",
	"elderly_percentage",
	"household_count",
	"population_density",
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// Writer writes datasets to disk.
type Writer struct{}

// NewWriter creates a Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write replaces the file at path with rows. The content is written to a
// temporary file in the same directory and renamed over path, so readers
// never see a partial file.
func (w *Writer) Write(path string, rows []entity.RegionRecord) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(bom); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(tmp)
	if err = cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range rows {
		if err = cw.Write(Record(rows[i])); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err = cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	// CreateTemp uses 0600; the dataset is meant to be shared.
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Record renders r as one CSV record in Header order.
func Record(r entity.RegionRecord) []string {
	return []string{
		r.SectorCode,
		r.RegionName,
		strconv.FormatInt(r.Population, 10),
		FormatFloat(r.AreaKm2),
		FormatFloat(r.AverageIncome),
		FormatFloat(r.ElderlyPercentage),
		strconv.FormatInt(r.HouseholdCount, 10),
		FormatFloat(r.PopulationDensity),
	}
}

// FormatFloat renders v with the shortest representation that round-trips,
// always keeping a fractional part (8285 becomes "8285.0").
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.ContainsAny(s, ".NI") {
		return s
	}
	return s + ".0"
}
