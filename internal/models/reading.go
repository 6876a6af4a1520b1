package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Reading represents one observation of pollutant concentrations for a date.
// A nil pointer means the pollutant was not measured that day; missing values
// are never coerced to zero.
//
// Units: PM2.5 in µg/m³, NO2 in ppb, CO in ppm. O3 may arrive in either ppb
// or ppm; the engine resolves the ambiguity.
type Reading struct {
	Date time.Time `json:"date"`
	PM25 *float64  `json:"pm25,omitempty"`
	O3   *float64  `json:"o3,omitempty"`
	NO2  *float64  `json:"no2,omitempty"`
	CO   *float64  `json:"co,omitempty"`
}

// NewReading creates a Reading for the given date with no pollutant values.
func NewReading(date time.Time) *Reading {
	return &Reading{Date: date}
}

// Set records a concentration for the given pollutant.
func (r *Reading) Set(p Pollutant, value float64) {
	v := value
	switch p {
	case PollutantPM25:
		r.PM25 = &v
	case PollutantO3:
		r.O3 = &v
	case PollutantNO2:
		r.NO2 = &v
	case PollutantCO:
		r.CO = &v
	}
}

// Value returns the concentration for the given pollutant and whether it is present.
func (r *Reading) Value(p Pollutant) (float64, bool) {
	var v *float64
	switch p {
	case PollutantPM25:
		v = r.PM25
	case PollutantO3:
		v = r.O3
	case PollutantNO2:
		v = r.NO2
	case PollutantCO:
		v = r.CO
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// IsEmpty reports whether the reading carries no pollutant values at all.
func (r *Reading) IsEmpty() bool {
	return r.PM25 == nil && r.O3 == nil && r.NO2 == nil && r.CO == nil
}

// IsValid checks that the reading has a usable date and that every present
// concentration is a finite, non-negative number.
func (r *Reading) IsValid() bool {
	if r.Date.IsZero() {
		return false
	}
	for _, p := range Pollutants() {
		v, ok := r.Value(p)
		if !ok {
			continue
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// String returns a human-readable summary of the reading.
func (r *Reading) String() string {
	parts := make([]string, 0, 4)
	for _, p := range Pollutants() {
		if v, ok := r.Value(p); ok {
			parts = append(parts, fmt.Sprintf("%s=%.3f", p, v))
		}
	}
	return fmt.Sprintf("Reading{%s: %s}", r.Date.Format("2006-01-02"), strings.Join(parts, ", "))
}

// Copy returns a deep copy of the Reading.
func (r *Reading) Copy() *Reading {
	if r == nil {
		return nil
	}
	out := &Reading{Date: r.Date}
	for _, p := range Pollutants() {
		if v, ok := r.Value(p); ok {
			out.Set(p, v)
		}
	}
	return out
}
