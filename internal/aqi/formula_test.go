package aqi

import (
	"math"
	"testing"

	"github.com/afroash/airq/internal/models"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name      string
		pollutant models.Pollutant
		in        float64
		want      float64
	}{
		{"pm25 one decimal", models.PollutantPM25, 12.06, 12.0},
		{"pm25 no rounding up", models.PollutantPM25, 35.49, 35.4},
		{"co one decimal", models.PollutantCO, 9.47, 9.4},
		{"no2 integer", models.PollutantNO2, 53.9, 53},
		{"o3 three decimals", models.PollutantO3, 0.0546, 0.054},
		{"exact value unchanged", models.PollutantPM25, 12.0, 12.0},
		// 35.4 sits a hair below the decimal grid in binary; truncation must
		// not slide it down to 35.3 and out of the Moderate interval.
		{"grid value stays on grid", models.PollutantPM25, 35.4, 35.4},
		{"o3 grid value stays on grid", models.PollutantO3, 0.054, 0.054},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.pollutant, tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Truncate(%s, %v) = %v, want %v", tt.pollutant, tt.in, got, tt.want)
			}
		})
	}
}

// Concentrations exactly on published bounds must land exactly on the
// published AQI integers after final rounding.
func TestComputeSubIndex_PublishedBounds(t *testing.T) {
	tests := []struct {
		name      string
		pollutant models.Pollutant
		window    models.Window
		value     float64
		wantAQI   int
	}{
		{"pm25 12.0 -> 50", models.PollutantPM25, "", 12.0, 50},
		{"pm25 35.4 -> 100", models.PollutantPM25, "", 35.4, 100},
		{"pm25 55.4 -> 150", models.PollutantPM25, "", 55.4, 150},
		{"pm25 500.4 -> 500", models.PollutantPM25, "", 500.4, 500},
		{"o3 0.054 -> 50", models.PollutantO3, models.WindowEightHour, 0.054, 50},
		{"o3 0.070 -> 100", models.PollutantO3, models.WindowEightHour, 0.070, 100},
		{"o3 1h 0.404 -> 500", models.PollutantO3, models.WindowOneHour, 0.404, 500},
		{"no2 53 -> 50", models.PollutantNO2, "", 53, 50},
		{"no2 100 -> 100", models.PollutantNO2, "", 100, 100},
		{"co 4.4 -> 50", models.PollutantCO, "", 4.4, 50},
		{"co 9.5 -> 101", models.PollutantCO, "", 9.5, 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp, err := Lookup(tt.pollutant, tt.window, tt.value)
			if err != nil {
				t.Fatalf("Lookup failed: %v", err)
			}
			got := roundHalfUp(ComputeSubIndex(bp, tt.value))
			if got != tt.wantAQI {
				t.Errorf("sub-index for %v = %d, want %d", tt.value, got, tt.wantAQI)
			}
		})
	}
}

// The formula is non-decreasing in concentration within one interval and
// does not regress across interval boundaries.
func TestComputeSubIndex_Monotonic(t *testing.T) {
	for _, tc := range []struct {
		pollutant models.Pollutant
		window    models.Window
	}{
		{models.PollutantPM25, ""},
		{models.PollutantO3, models.WindowEightHour},
		{models.PollutantNO2, ""},
		{models.PollutantCO, ""},
	} {
		table := Table(tc.pollutant, tc.window)
		prev := math.Inf(-1)
		for _, bp := range table {
			steps := 10
			for i := 0; i <= steps; i++ {
				c := bp.CLow + (bp.CHigh-bp.CLow)*float64(i)/float64(steps)
				v := ComputeSubIndex(bp, c)
				if v < prev-1e-9 {
					t.Errorf("%s: sub-index decreased at %g: %g < %g", tc.pollutant, c, v, prev)
				}
				prev = v
			}
		}
	}
}

// Interval endpoints map exactly onto the interval's AQI endpoints, so the
// scale is continuous modulo the one-step gaps of the published tables.
func TestComputeSubIndex_EndpointsExact(t *testing.T) {
	for _, tc := range []struct {
		pollutant models.Pollutant
		window    models.Window
	}{
		{models.PollutantPM25, ""},
		{models.PollutantO3, models.WindowEightHour},
		{models.PollutantO3, models.WindowOneHour},
		{models.PollutantNO2, ""},
		{models.PollutantCO, ""},
	} {
		for i, bp := range Table(tc.pollutant, tc.window) {
			if got := ComputeSubIndex(bp, bp.CLow); math.Abs(got-float64(bp.ILow)) > 1e-9 {
				t.Errorf("%s interval %d: low endpoint gives %g, want %d", tc.pollutant, i, got, bp.ILow)
			}
			if got := ComputeSubIndex(bp, bp.CHigh); math.Abs(got-float64(bp.IHigh)) > 1e-9 {
				t.Errorf("%s interval %d: high endpoint gives %g, want %d", tc.pollutant, i, got, bp.IHigh)
			}
		}
	}
}
