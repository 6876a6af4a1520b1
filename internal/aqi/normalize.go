package aqi

import "github.com/afroash/airq/internal/models"

// DefaultO3PpbThreshold separates ppb-scale from ppm-scale raw ozone values.
// Ambient 8-hr ozone in ppm stays below ~0.4, while ppb feeds run in the
// tens, so 1.0 splits the two populations with margin on both sides.
const DefaultO3PpbThreshold = 1.0

// oneHourCutoverPPM is the concentration above which the EPA 8-hr ozone
// table is undefined and the 1-hr table applies.
const oneHourCutoverPPM = 0.200

// Normalizer resolves the ppb/ppm ambiguity of raw ozone values and selects
// the averaging-window table for the normalized concentration.
type Normalizer struct {
	o3PpbThreshold float64
}

// NewNormalizer creates a Normalizer. A zero or negative threshold falls
// back to DefaultO3PpbThreshold.
func NewNormalizer(o3PpbThreshold float64) *Normalizer {
	if o3PpbThreshold <= 0 {
		o3PpbThreshold = DefaultO3PpbThreshold
	}
	return &Normalizer{o3PpbThreshold: o3PpbThreshold}
}

// NormalizeOzone converts a raw ozone value to ppm and picks the breakpoint
// table window for it. Raw values above the threshold are implausibly large
// for ppm and are treated as ppb. Window selection depends only on the
// normalized ppm value: above 0.200 ppm the 8-hr table is undefined and the
// 1-hr table is the official fallback.
func (n *Normalizer) NormalizeOzone(raw float64) (ppm float64, w models.Window) {
	ppm = raw
	if raw > n.o3PpbThreshold {
		ppm = raw / 1000.0
	}
	if ppm > oneHourCutoverPPM {
		return ppm, models.WindowOneHour
	}
	return ppm, models.WindowEightHour
}
