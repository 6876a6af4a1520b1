package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/afroash/airq/internal/models"
)

// Frequency selects the aggregation period for trends.
type Frequency string

const (
	FreqDaily    Frequency = "D"
	FreqMonthEnd Frequency = "ME"
	FreqYearEnd  Frequency = "YE"
)

// ParseFrequency validates a frequency flag value.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case FreqDaily, FreqMonthEnd, FreqYearEnd:
		return Frequency(s), nil
	case "M":
		// Accepted for backward compatibility with the older month flag.
		return FreqMonthEnd, nil
	default:
		return "", fmt.Errorf("unknown trend frequency %q (want D, ME, or YE)", s)
	}
}

// periodOf maps a date onto its aggregation period label: the date itself,
// the last day of its month, or the last day of its year.
func periodOf(date time.Time, freq Frequency) time.Time {
	switch freq {
	case FreqMonthEnd:
		return time.Date(date.Year(), date.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	case FreqYearEnd:
		return time.Date(date.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
	default:
		return date
	}
}

// Trend aggregates computed AQI values into mean-per-period points, sorted
// by period.
func Trend(days []models.DailyAQI, freq Frequency) []models.TrendPoint {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[time.Time]*bucket)
	for _, day := range days {
		period := periodOf(day.Date, freq)
		b, ok := buckets[period]
		if !ok {
			b = &bucket{}
			buckets[period] = b
		}
		b.sum += float64(day.AQI)
		b.count++
	}

	points := make([]models.TrendPoint, 0, len(buckets))
	for period, b := range buckets {
		points = append(points, models.TrendPoint{
			Period:  period,
			MeanAQI: b.sum / float64(b.count),
			Count:   b.count,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Period.Before(points[j].Period)
	})
	return points
}

// ComparisonTrendPoint aggregates one period of a comparison table: the mean
// computed and reference AQI and their ratio.
type ComparisonTrendPoint struct {
	Period        time.Time `json:"period"`
	ComputedMean  float64   `json:"computed_mean"`
	ReferenceMean float64   `json:"reference_mean"`
	Ratio         float64   `json:"ratio"`
	Count         int       `json:"count"`
}

// TrendCompare aggregates comparison rows into per-period means. The ratio
// is the ratio of the period means, zero when the reference mean is zero.
func TrendCompare(rows []models.ComparisonRow, freq Frequency) []ComparisonTrendPoint {
	type bucket struct {
		computed  float64
		reference float64
		count     int
	}
	buckets := make(map[time.Time]*bucket)
	for _, row := range rows {
		period := periodOf(row.Date, freq)
		b, ok := buckets[period]
		if !ok {
			b = &bucket{}
			buckets[period] = b
		}
		b.computed += float64(row.ComputedAQI)
		b.reference += float64(row.ReferenceAQI)
		b.count++
	}

	points := make([]ComparisonTrendPoint, 0, len(buckets))
	for period, b := range buckets {
		p := ComparisonTrendPoint{
			Period:        period,
			ComputedMean:  b.computed / float64(b.count),
			ReferenceMean: b.reference / float64(b.count),
			Count:         b.count,
		}
		if p.ReferenceMean != 0 {
			p.Ratio = p.ComputedMean / p.ReferenceMean
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Period.Before(points[j].Period)
	})
	return points
}
