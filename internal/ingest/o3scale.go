package ingest

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/afroash/airq/internal/models"
)

// o3Scale names the rescaling applied to an ozone series.
type o3Scale string

const (
	o3ScaleNone o3Scale = "none"
	o3ScalePPB  o3Scale = "ppb"
	o3ScaleUGM3 o3Scale = "ugm3"
)

// Conversion factors to ppm. The µg/m³ factor assumes 25°C at 1 atm.
const (
	ppbPerPPM  = 1000.0
	ugm3PerPPM = 1960.0
)

// maxPlausiblePPM is the top of the 1-hr ozone table; a series whose upper
// tail exceeds it is not plausibly expressed in ppm.
const maxPlausiblePPM = 0.404

// detectO3Scale decides how a whole ozone series should be rescaled to ppm.
// It looks at the 95th percentile and picks the first conversion that brings
// the upper tail into the plausible ppm range. When nothing looks sane the
// series is left alone and the engine's per-value guard takes over.
func detectO3Scale(values []float64) o3Scale {
	if len(values) == 0 {
		return o3ScaleNone
	}

	p95 := percentile(values, 0.95)
	if p95 <= maxPlausiblePPM {
		return o3ScaleNone
	}
	if p95/ppbPerPPM <= maxPlausiblePPM {
		return o3ScalePPB
	}
	if p95/ugm3PerPPM <= maxPlausiblePPM {
		return o3ScaleUGM3
	}
	return o3ScaleNone
}

// normalizeO3Series rescales the ozone column of a batch of readings in
// place, logging the decision the way the unit heuristic is expected to be
// auditable.
func normalizeO3Series(readings []*models.Reading, logger zerolog.Logger) {
	var values []float64
	for _, r := range readings {
		if v, ok := r.Value(models.PollutantO3); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return
	}

	scale := detectO3Scale(values)
	var divisor float64
	switch scale {
	case o3ScalePPB:
		divisor = ppbPerPPM
		logger.Info().Msg("Detected O3 likely in ppb, converting to ppm")
	case o3ScaleUGM3:
		divisor = ugm3PerPPM
		logger.Info().Msg("Detected O3 likely in µg/m³, converting to ppm")
	default:
		return
	}

	for _, r := range readings {
		if v, ok := r.Value(models.PollutantO3); ok {
			r.Set(models.PollutantO3, v/divisor)
		}
	}
}

// percentile returns the q-th percentile of values using linear
// interpolation between closest ranks. values is not modified.
func percentile(values []float64, q float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := q * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
