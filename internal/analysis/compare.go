// Package analysis holds the downstream consumers of computed AQI values:
// validation against an independently reported reference AQI and
// time-aggregated trends. Nothing here recomputes an AQI.
package analysis

import (
	"sort"
	"time"

	"github.com/afroash/airq/internal/models"
)

// DefaultTolerance is the allowed |computed - reference| for a date to
// count as agreeing; one point absorbs rounding differences.
const DefaultTolerance = 1

// Comparer pairs computed daily AQI values with reference values by date.
type Comparer struct {
	tolerance int
}

// NewComparer creates a Comparer. A negative tolerance falls back to
// DefaultTolerance.
func NewComparer(tolerance int) *Comparer {
	if tolerance < 0 {
		tolerance = DefaultTolerance
	}
	return &Comparer{tolerance: tolerance}
}

// Compare joins computed and reference AQI by date. Dates present on only
// one side are excluded, never defaulted to zero. Rows come back sorted by
// date. The ratio is zero when the reference AQI is zero.
func (c *Comparer) Compare(computed []models.DailyAQI, reference []models.ReferenceAQI) []models.ComparisonRow {
	refByDate := make(map[time.Time]int, len(reference))
	for _, ref := range reference {
		refByDate[ref.Date] = ref.AQI
	}

	rows := make([]models.ComparisonRow, 0, len(computed))
	for _, day := range computed {
		ref, ok := refByDate[day.Date]
		if !ok {
			continue
		}
		delta := day.AQI - ref
		absDelta := delta
		if absDelta < 0 {
			absDelta = -absDelta
		}
		var ratio float64
		if ref != 0 {
			ratio = float64(day.AQI) / float64(ref)
		}
		rows = append(rows, models.ComparisonRow{
			Date:            day.Date,
			ComputedAQI:     day.AQI,
			ReferenceAQI:    ref,
			Delta:           delta,
			WithinTolerance: absDelta <= c.tolerance,
			Ratio:           ratio,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	return rows
}

// MatchRate returns the fraction of rows within tolerance, or zero for an
// empty comparison.
func MatchRate(rows []models.ComparisonRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	matched := 0
	for _, row := range rows {
		if row.WithinTolerance {
			matched++
		}
	}
	return float64(matched) / float64(len(rows))
}
