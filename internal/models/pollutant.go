package models

// Pollutant identifies one of the pollutants the engine knows how to index.
type Pollutant string

const (
	PollutantPM25 Pollutant = "pm25"
	PollutantO3   Pollutant = "o3"
	PollutantNO2  Pollutant = "no2"
	PollutantCO   Pollutant = "co"
)

// Pollutants returns all supported pollutants in reporting priority order.
// The order doubles as the tie-break order when two pollutants produce the
// same daily AQI.
func Pollutants() []Pollutant {
	return []Pollutant{PollutantPM25, PollutantO3, PollutantNO2, PollutantCO}
}

// Unit returns the canonical unit the breakpoint tables expect for the pollutant.
func (p Pollutant) Unit() string {
	switch p {
	case PollutantPM25:
		return "µg/m³"
	case PollutantO3:
		return "ppm"
	case PollutantNO2:
		return "ppb"
	case PollutantCO:
		return "ppm"
	default:
		return ""
	}
}

// IsValid reports whether p is one of the supported pollutants.
func (p Pollutant) IsValid() bool {
	switch p {
	case PollutantPM25, PollutantO3, PollutantNO2, PollutantCO:
		return true
	}
	return false
}

// Window is the averaging window a concentration was measured over. Only
// ozone has two published breakpoint tables; the other pollutants carry an
// empty window.
type Window string

const (
	WindowEightHour Window = "8h"
	WindowOneHour   Window = "1h"
)
