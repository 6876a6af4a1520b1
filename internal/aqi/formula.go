package aqi

import (
	"math"

	"github.com/afroash/airq/internal/models"
)

// Truncate drops a concentration to the decimal precision the EPA method
// specifies per pollutant, before lookup and interpolation. Pre-truncating
// keeps boundary values from landing in the gaps between the disjoint
// published intervals.
//
//	PM2.5  0.1 µg/m³
//	O3     0.001 ppm
//	NO2    1 ppb
//	CO     0.1 ppm
func Truncate(p models.Pollutant, c float64) float64 {
	switch p {
	case models.PollutantPM25, models.PollutantCO:
		return truncateTo(c, 10)
	case models.PollutantO3:
		return truncateTo(c, 1000)
	case models.PollutantNO2:
		return truncateTo(c, 1)
	default:
		return c
	}
}

// truncEpsilon absorbs binary representation error when scaling onto the
// decimal grid: 35.4*10 lands a hair below 354 and would otherwise truncate
// to 35.3, shifting the value into the wrong interval.
const truncEpsilon = 1e-9

func truncateTo(c, scale float64) float64 {
	return math.Floor(c*scale+truncEpsilon) / scale
}

// ComputeSubIndex applies the EPA linear interpolation within one breakpoint:
//
//	I = (IHigh - ILow) / (CHigh - CLow) * (c - CLow) + ILow
//
// The result stays fractional; only the final daily AQI is rounded. No table
// interval has CHigh == CLow, so the division is always defined.
func ComputeSubIndex(bp Breakpoint, c float64) float64 {
	return float64(bp.IHigh-bp.ILow)/(bp.CHigh-bp.CLow)*(c-bp.CLow) + float64(bp.ILow)
}
