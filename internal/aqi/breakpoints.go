// Package aqi implements the EPA Air Quality Index breakpoint method:
// pollutant breakpoint tables, ozone unit normalization and window selection,
// piecewise-linear sub-index interpolation, and the maximum-sub-index
// aggregation rule.
package aqi

import (
	"github.com/afroash/airq/internal/models"
)

// Breakpoint is one linear segment of a pollutant's AQI scale: a
// concentration range mapped onto an AQI range, with the EPA category label.
type Breakpoint struct {
	CLow     float64
	CHigh    float64
	ILow     int
	IHigh    int
	Category string
}

// The tables below reproduce the published EPA breakpoint constants exactly.
// They are reference data: constructed once, never mutated. Any drift in
// these numbers corrupts every downstream AQI.

// PM2.5, 24-hr average, µg/m³.
var pm25Table = []Breakpoint{
	{0.0, 12.0, 0, 50, "Good"},
	{12.1, 35.4, 51, 100, "Moderate"},
	{35.5, 55.4, 101, 150, "Unhealthy for Sensitive Groups"},
	{55.5, 150.4, 151, 200, "Unhealthy"},
	{150.5, 250.4, 201, 300, "Very Unhealthy"},
	{250.5, 500.4, 301, 500, "Hazardous"},
}

// O3, 8-hr average, ppm. Not defined above 0.200 ppm; the 1-hr table takes over.
var o3EightHourTable = []Breakpoint{
	{0.000, 0.054, 0, 50, "Good"},
	{0.055, 0.070, 51, 100, "Moderate"},
	{0.071, 0.085, 101, 150, "Unhealthy for Sensitive Groups"},
	{0.086, 0.105, 151, 200, "Unhealthy"},
	{0.106, 0.200, 201, 300, "Very Unhealthy"},
}

// O3, 1-hr average, ppm. Used when the 8-hr concentration exceeds 0.200 ppm.
var o3OneHourTable = []Breakpoint{
	{0.125, 0.164, 101, 150, "Unhealthy for Sensitive Groups"},
	{0.165, 0.204, 151, 200, "Unhealthy"},
	{0.205, 0.404, 201, 500, "Very Unhealthy/Hazardous"},
}

// NO2, 1-hr average, ppb.
var no2Table = []Breakpoint{
	{0, 53, 0, 50, "Good"},
	{54, 100, 51, 100, "Moderate"},
	{101, 360, 101, 150, "Unhealthy for Sensitive Groups"},
	{361, 649, 151, 200, "Unhealthy"},
	{650, 1249, 201, 300, "Very Unhealthy"},
	{1250, 2049, 301, 400, "Hazardous"},
	{2050, 4049, 401, 500, "Hazardous"},
}

// CO, 8-hr average, ppm.
var coTable = []Breakpoint{
	{0.0, 4.4, 0, 50, "Good"},
	{4.5, 9.4, 51, 100, "Moderate"},
	{9.5, 12.4, 101, 150, "Unhealthy for Sensitive Groups"},
	{12.5, 15.4, 151, 200, "Unhealthy"},
	{15.5, 30.4, 201, 300, "Very Unhealthy"},
	{30.5, 40.4, 301, 400, "Hazardous"},
	{40.5, 50.4, 401, 500, "Hazardous"},
}

// Table returns the breakpoint table for a pollutant. The window argument is
// only consulted for ozone, which has separate 8-hr and 1-hr tables.
func Table(p models.Pollutant, w models.Window) []Breakpoint {
	switch p {
	case models.PollutantPM25:
		return pm25Table
	case models.PollutantO3:
		if w == models.WindowOneHour {
			return o3OneHourTable
		}
		return o3EightHourTable
	case models.PollutantNO2:
		return no2Table
	case models.PollutantCO:
		return coTable
	default:
		return nil
	}
}

// TableMax returns the highest concentration the table defines an AQI for.
func TableMax(p models.Pollutant, w models.Window) float64 {
	t := Table(p, w)
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].CHigh
}

// Lookup finds the breakpoint interval containing the given concentration.
// Bounds are inclusive; a value exactly on a bound shared between two
// intervals resolves to the higher-indexed one, matching the disjoint
// labeling of the published tables. Returns an OutOfRangeError when the
// concentration lies outside every interval of the table.
func Lookup(p models.Pollutant, w models.Window, c float64) (Breakpoint, error) {
	table := Table(p, w)
	for i := len(table) - 1; i >= 0; i-- {
		if c >= table[i].CLow && c <= table[i].CHigh {
			return table[i], nil
		}
	}
	return Breakpoint{}, &OutOfRangeError{
		Pollutant: p,
		Window:    w,
		Value:     c,
		Max:       TableMax(p, w),
	}
}
