package ingest

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/rs/zerolog"

	"github.com/afroash/airq/internal/models"
)

// ReadReferenceAQI reads an official AQI CSV: a date column (aliases
// accepted) and a numeric aqi column. Rows with missing AQI values are
// dropped; rows come back sorted by date.
func ReadReferenceAQI(path string, logger zerolog.Logger) ([]models.ReferenceAQI, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference AQI CSV: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read reference AQI CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("reference AQI CSV %s has no data rows", path)
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = normalizeHeader(col)
	}

	dateCol, err := findDateColumn(header)
	if err != nil {
		return nil, err
	}

	aqiCol := -1
	for i, col := range header {
		if col == "aqi" {
			aqiCol = i
			break
		}
	}
	if aqiCol == -1 {
		return nil, fmt.Errorf("reference AQI CSV %s must contain an %q column", path, "aqi")
	}

	refs := make([]models.ReferenceAQI, 0, len(records)-1)
	dropped := 0
	for line, rec := range records[1:] {
		if len(rec) <= dateCol || len(rec) <= aqiCol {
			continue
		}
		date, err := parseDate(rec[dateCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line+2, err)
		}
		v, ok := parseNumber(rec[aqiCol])
		if !ok {
			dropped++
			continue
		}
		refs = append(refs, models.ReferenceAQI{
			Date: date,
			AQI:  int(math.Floor(v + 0.5)),
		})
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Date.Before(refs[j].Date)
	})

	logger.Info().
		Str("path", path).
		Int("rows", len(refs)).
		Int("dropped", dropped).
		Msg("Loaded reference AQI values")

	return refs, nil
}
