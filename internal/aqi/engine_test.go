package aqi

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/afroash/airq/internal/models"
)

func testEngine(opts Options) *Engine {
	return NewEngine(opts, zerolog.Nop())
}

func reading(date time.Time, set func(*models.Reading)) *models.Reading {
	r := models.NewReading(date)
	set(r)
	return r
}

func TestEngine_ComputeDaily(t *testing.T) {
	e := testEngine(Options{})
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	r := reading(date, func(r *models.Reading) {
		r.Set(models.PollutantPM25, 20.0) // Moderate band
		r.Set(models.PollutantO3, 45)     // ppb -> 0.045 ppm, Good band
		r.Set(models.PollutantNO2, 30)    // Good band
	})

	day, subs, err := e.ComputeDaily(r)
	if err != nil {
		t.Fatalf("ComputeDaily failed: %v", err)
	}

	if len(subs) != 3 {
		t.Fatalf("got %d sub-indices, want 3", len(subs))
	}
	if day.Dominant != models.PollutantPM25 {
		t.Errorf("Dominant = %s, want pm25", day.Dominant)
	}
	if day.AQI < 51 || day.AQI > 100 {
		t.Errorf("AQI = %d, want Moderate band (51-100)", day.AQI)
	}
	if day.Category != "Moderate" {
		t.Errorf("Category = %q, want Moderate", day.Category)
	}

	for _, s := range subs {
		if s.Pollutant == models.PollutantO3 {
			if s.Window != models.WindowEightHour {
				t.Errorf("O3 window = %s, want 8h", s.Window)
			}
			// 0.045 ppm sits in the Good band.
			if s.Value < 0 || s.Value > 50 {
				t.Errorf("O3 sub-index = %g, want within [0,50]", s.Value)
			}
		}
	}
}

func TestEngine_HighOzoneUsesOneHourTable(t *testing.T) {
	e := testEngine(Options{})
	r := reading(time.Now().UTC(), func(r *models.Reading) {
		r.Set(models.PollutantO3, 0.250)
	})

	day, subs, err := e.ComputeDaily(r)
	if err != nil {
		t.Fatalf("ComputeDaily failed: %v", err)
	}
	if subs[0].Window != models.WindowOneHour {
		t.Errorf("window = %s, want 1h for 0.250 ppm", subs[0].Window)
	}
	if day.AQI < 201 {
		t.Errorf("AQI = %d, want Very Unhealthy band for 0.250 ppm 1-hr ozone", day.AQI)
	}
}

func TestEngine_EmptyReading(t *testing.T) {
	e := testEngine(Options{})
	_, _, err := e.ComputeDaily(models.NewReading(time.Now().UTC()))

	var empty *EmptyInputError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyInputError, got %T: %v", err, err)
	}
}

func TestEngine_InvalidConcentration(t *testing.T) {
	e := testEngine(Options{})

	for _, bad := range []float64{-1.0, math.NaN(), math.Inf(1)} {
		r := reading(time.Now().UTC(), func(r *models.Reading) {
			r.Set(models.PollutantCO, bad)
		})
		_, _, err := e.ComputeDaily(r)

		var inv *InvalidConcentrationError
		if !errors.As(err, &inv) {
			t.Fatalf("value %v: expected InvalidConcentrationError, got %T: %v", bad, err, err)
		}
		if inv.Pollutant != models.PollutantCO {
			t.Errorf("error pollutant = %s, want co", inv.Pollutant)
		}
	}
}

func TestEngine_OutOfRangePolicies(t *testing.T) {
	r := reading(time.Now().UTC(), func(r *models.Reading) {
		r.Set(models.PollutantPM25, 900.0) // above 500.4 table max
	})

	t.Run("fail policy surfaces error", func(t *testing.T) {
		e := testEngine(Options{OutOfRangePolicy: PolicyFail})
		_, _, err := e.ComputeDaily(r)
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Fatalf("expected OutOfRangeError, got %T: %v", err, err)
		}
	})

	t.Run("cap policy clamps to table max", func(t *testing.T) {
		e := testEngine(Options{OutOfRangePolicy: PolicyCap})
		day, _, err := e.ComputeDaily(r)
		if err != nil {
			t.Fatalf("ComputeDaily failed under cap policy: %v", err)
		}
		if day.AQI != 500 {
			t.Errorf("capped AQI = %d, want 500", day.AQI)
		}
	})
}

func TestEngine_TruncatesBeforeLookup(t *testing.T) {
	// 12.05 truncates to 12.0, which must land in the Good interval and give
	// exactly AQI 50, not fall into the 12.0-12.1 gap or the Moderate band.
	e := testEngine(Options{})
	r := reading(time.Now().UTC(), func(r *models.Reading) {
		r.Set(models.PollutantPM25, 12.05)
	})

	day, _, err := e.ComputeDaily(r)
	if err != nil {
		t.Fatalf("ComputeDaily failed: %v", err)
	}
	if day.AQI != 50 {
		t.Errorf("AQI for 12.05 µg/m³ = %d, want 50", day.AQI)
	}
}

func TestEngine_Deterministic(t *testing.T) {
	e := testEngine(Options{})
	dates := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	run := func() []models.DailyAQI {
		var out []models.DailyAQI
		for i, d := range dates {
			r := reading(d, func(r *models.Reading) {
				r.Set(models.PollutantPM25, 18.3+float64(i))
				r.Set(models.PollutantO3, 61)
				r.Set(models.PollutantCO, 2.2)
			})
			day, _, err := e.ComputeDaily(r)
			if err != nil {
				t.Fatalf("ComputeDaily failed: %v", err)
			}
			out = append(out, day)
		}
		return out
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("run not deterministic at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}
