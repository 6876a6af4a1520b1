// Package ingest reads pollutant and reference-AQI CSV files into the model
// types the engine consumes. It owns the mechanical edges of the pipeline:
// header normalization, date parsing, missing-value handling, and the
// series-level ozone unit detection.
package ingest

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/afroash/airq/internal/models"
)

// ReadPollutants reads a raw pollutant CSV. The file needs a date column
// (aliases accepted) and any subset of pm25, o3, no2, co columns. Empty and
// non-numeric cells become missing values, never zero. The ozone column is
// rescaled to ppm when the series as a whole looks like ppb or µg/m³. Rows
// come back sorted by date.
func ReadPollutants(path string, logger zerolog.Logger) ([]*models.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pollutant CSV: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read pollutant CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("pollutant CSV %s has no data rows", path)
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = normalizeHeader(col)
	}

	dateCol, err := findDateColumn(header)
	if err != nil {
		return nil, err
	}

	pollutantCols := map[models.Pollutant]int{}
	for i, col := range header {
		if p := models.Pollutant(col); p.IsValid() {
			pollutantCols[p] = i
		}
	}
	if len(pollutantCols) == 0 {
		return nil, fmt.Errorf("pollutant CSV %s has none of the pm25/o3/no2/co columns", path)
	}

	readings := make([]*models.Reading, 0, len(records)-1)
	for line, rec := range records[1:] {
		if len(rec) <= dateCol {
			continue
		}
		date, err := parseDate(rec[dateCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line+2, err)
		}

		reading := models.NewReading(date)
		for p, col := range pollutantCols {
			if col >= len(rec) {
				continue
			}
			if v, ok := parseNumber(rec[col]); ok {
				reading.Set(p, v)
			}
		}
		readings = append(readings, reading)
	}

	normalizeO3Series(readings, logger)

	sort.Slice(readings, func(i, j int) bool {
		return readings[i].Date.Before(readings[j].Date)
	})

	logger.Info().
		Str("path", path).
		Int("rows", len(readings)).
		Int("pollutants", len(pollutantCols)).
		Msg("Loaded pollutant readings")

	return readings, nil
}

// parseNumber parses a CSV cell into a float. Empty cells and the common
// not-a-value markers count as missing.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "n/a", "nan", "null", "-":
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
