package aqi

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/afroash/airq/internal/models"
)

// OutOfRangePolicy controls what happens when a concentration exceeds its
// breakpoint table.
type OutOfRangePolicy string

const (
	// PolicyFail surfaces an OutOfRangeError. The AQI is undefined above the
	// table by the standard, so this is the default.
	PolicyFail OutOfRangePolicy = "fail"
	// PolicyCap clamps the concentration to the table maximum. Explicit opt-in.
	PolicyCap OutOfRangePolicy = "cap"
)

// Options configures the engine.
type Options struct {
	// O3PpbThreshold is the raw-value boundary above which ozone is treated
	// as ppb. Zero selects DefaultO3PpbThreshold.
	O3PpbThreshold float64
	// OutOfRangePolicy defaults to PolicyFail.
	OutOfRangePolicy OutOfRangePolicy
}

// Engine computes per-pollutant sub-indices and the daily AQI for
// observations. It is pure, stateless computation over immutable inputs;
// the breakpoint tables it reads are never mutated, so a single Engine is
// safe for concurrent use.
type Engine struct {
	opts   Options
	norm   *Normalizer
	logger zerolog.Logger
}

// NewEngine creates an Engine with the given options.
func NewEngine(opts Options, logger zerolog.Logger) *Engine {
	if opts.OutOfRangePolicy == "" {
		opts.OutOfRangePolicy = PolicyFail
	}
	return &Engine{
		opts:   opts,
		norm:   NewNormalizer(opts.O3PpbThreshold),
		logger: logger,
	}
}

// SubIndices computes the sub-index for every pollutant present in the
// reading. It never skips a pollutant on error: the first failure is
// returned with full context and the caller decides per-row recovery.
func (e *Engine) SubIndices(r *models.Reading) ([]models.SubIndex, error) {
	subs := make([]models.SubIndex, 0, 4)
	for _, p := range models.Pollutants() {
		raw, ok := r.Value(p)
		if !ok {
			continue
		}
		sub, err := e.subIndex(p, raw)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// subIndex validates, normalizes, truncates, and interpolates one concentration.
func (e *Engine) subIndex(p models.Pollutant, raw float64) (models.SubIndex, error) {
	if raw < 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return models.SubIndex{}, &InvalidConcentrationError{Pollutant: p, Value: raw}
	}

	c := raw
	var window models.Window
	if p == models.PollutantO3 {
		c, window = e.norm.NormalizeOzone(raw)
		if c != raw {
			e.logger.Debug().
				Float64("raw", raw).
				Float64("ppm", c).
				Msg("Ozone value treated as ppb, converted to ppm")
		}
	}

	c = Truncate(p, c)

	if e.opts.OutOfRangePolicy == PolicyCap {
		if max := TableMax(p, window); c > max {
			e.logger.Warn().
				Str("pollutant", string(p)).
				Float64("value", c).
				Float64("max", max).
				Msg("Concentration above table maximum, capping")
			c = max
		}
	}

	bp, err := Lookup(p, window, c)
	if err != nil {
		return models.SubIndex{}, err
	}

	return models.SubIndex{
		Pollutant: p,
		Value:     ComputeSubIndex(bp, c),
		Category:  bp.Category,
		Window:    window,
	}, nil
}

// ComputeDaily runs the full per-observation pipeline: sub-indices for every
// present pollutant, then the maximum-AQI aggregation. The sub-index set is
// returned alongside the daily value for callers that want the per-pollutant
// breakdown.
func (e *Engine) ComputeDaily(r *models.Reading) (models.DailyAQI, []models.SubIndex, error) {
	subs, err := e.SubIndices(r)
	if err != nil {
		return models.DailyAQI{}, nil, err
	}
	day, err := Aggregate(r.Date, subs)
	if err != nil {
		return models.DailyAQI{}, nil, err
	}
	return day, subs, nil
}
