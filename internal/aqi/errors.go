package aqi

import (
	"fmt"
	"time"

	"github.com/afroash/airq/internal/models"
)

// OutOfRangeError reports a concentration outside every interval of its
// breakpoint table. The AQI is undefined there by the standard, so under the
// default FAIL policy the value is surfaced rather than clamped.
type OutOfRangeError struct {
	Pollutant models.Pollutant
	Window    models.Window
	Value     float64
	Max       float64
}

func (e *OutOfRangeError) Error() string {
	if e.Pollutant == models.PollutantO3 {
		return fmt.Sprintf("aqi: %s concentration %g %s outside %s table (max %g)",
			e.Pollutant, e.Value, e.Pollutant.Unit(), e.Window, e.Max)
	}
	return fmt.Sprintf("aqi: %s concentration %g %s outside breakpoint table (max %g)",
		e.Pollutant, e.Value, e.Pollutant.Unit(), e.Max)
}

// EmptyInputError reports an observation with no usable pollutant readings.
// A day with no sub-indices cannot produce an AQI.
type EmptyInputError struct {
	Date time.Time
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("aqi: no pollutant readings for %s", e.Date.Format("2006-01-02"))
}

// InvalidConcentrationError reports a negative or non-numeric concentration
// reaching the engine: an upstream contract violation, fatal to that
// observation and never silently clamped to zero.
type InvalidConcentrationError struct {
	Pollutant models.Pollutant
	Value     float64
}

func (e *InvalidConcentrationError) Error() string {
	return fmt.Sprintf("aqi: invalid %s concentration %v", e.Pollutant, e.Value)
}
