// Package report writes the pipeline's flat tabular outputs and renders the
// summary charts. It consumes computed values only and performs no AQI
// arithmetic of its own.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/afroash/airq/internal/analysis"
	"github.com/afroash/airq/internal/models"
)

const dateLayout = "2006-01-02"

// writeCSV writes a header and rows to path, creating or truncating the file.
func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

// WriteComputedCSV writes the per-day computed AQI table.
func WriteComputedCSV(path string, days []models.DailyAQI) error {
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{
			d.Date.Format(dateLayout),
			strconv.Itoa(d.AQI),
			string(d.Dominant),
			d.Category,
		})
	}
	return writeCSV(path, []string{"date", "aqi", "dominant", "category"}, rows)
}

// WriteComparisonCSV writes the computed-vs-reference comparison table.
func WriteComparisonCSV(path string, rows []models.ComparisonRow) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Date.Format(dateLayout),
			strconv.Itoa(r.ComputedAQI),
			strconv.Itoa(r.ReferenceAQI),
			strconv.Itoa(r.Delta),
			strconv.FormatBool(r.WithinTolerance),
			strconv.FormatFloat(r.Ratio, 'f', 4, 64),
		})
	}
	header := []string{"date", "computed_aqi", "reference_aqi", "delta", "within_tolerance", "ratio"}
	return writeCSV(path, header, out)
}

// WriteTrendCSV writes the aggregated trend table.
func WriteTrendCSV(path string, points []models.TrendPoint) error {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			p.Period.Format(dateLayout),
			strconv.FormatFloat(p.MeanAQI, 'f', 2, 64),
			strconv.Itoa(p.Count),
		})
	}
	return writeCSV(path, []string{"period", "mean_aqi", "count"}, rows)
}

// WriteComparisonTrendCSV writes the aggregated comparison table.
func WriteComparisonTrendCSV(path string, points []analysis.ComparisonTrendPoint) error {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			p.Period.Format(dateLayout),
			strconv.FormatFloat(p.ComputedMean, 'f', 2, 64),
			strconv.FormatFloat(p.ReferenceMean, 'f', 2, 64),
			strconv.FormatFloat(p.Ratio, 'f', 4, 64),
			strconv.Itoa(p.Count),
		})
	}
	header := []string{"period", "computed_mean", "reference_mean", "ratio", "count"}
	return writeCSV(path, header, rows)
}
