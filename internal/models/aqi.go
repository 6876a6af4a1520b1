package models

import (
	"fmt"
	"time"
)

// SubIndex is the AQI contribution of a single pollutant for one observation.
// The value stays fractional; only the final daily AQI is rounded.
type SubIndex struct {
	Pollutant Pollutant `json:"pollutant"`
	Value     float64   `json:"value"`
	Category  string    `json:"category"`
	Window    Window    `json:"window,omitempty"`
}

// DailyAQI is the overall AQI for one date: the rounded maximum of that
// day's sub-indices plus the pollutant that produced it.
type DailyAQI struct {
	Date     time.Time `json:"date"`
	AQI      int       `json:"aqi"`
	Dominant Pollutant `json:"dominant"`
	Category string    `json:"category"`
}

// String returns a human-readable summary of the daily AQI.
func (d DailyAQI) String() string {
	return fmt.Sprintf("%s AQI=%d (%s, %s)",
		d.Date.Format("2006-01-02"), d.AQI, d.Dominant, d.Category)
}

// ReferenceAQI is an independently reported AQI for a date, used only for
// validation of computed values.
type ReferenceAQI struct {
	Date time.Time `json:"date"`
	AQI  int       `json:"aqi"`
}

// ComparisonRow pairs a computed AQI with the reference AQI for the same
// date. Dates without a reference value never produce a row.
type ComparisonRow struct {
	Date            time.Time `json:"date"`
	ComputedAQI     int       `json:"computed_aqi"`
	ReferenceAQI    int       `json:"reference_aqi"`
	Delta           int       `json:"delta"`
	WithinTolerance bool      `json:"within_tolerance"`
	Ratio           float64   `json:"ratio"`
}

// TrendPoint is the mean computed AQI over one aggregation period.
type TrendPoint struct {
	Period  time.Time `json:"period"`
	MeanAQI float64   `json:"mean_aqi"`
	Count   int       `json:"count"`
}
