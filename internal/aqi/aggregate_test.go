package aqi

import (
	"errors"
	"testing"
	"time"

	"github.com/afroash/airq/internal/models"
)

var testDate = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func TestAggregate_MaxWins(t *testing.T) {
	subs := []models.SubIndex{
		{Pollutant: models.PollutantPM25, Value: 42, Category: "Good"},
		{Pollutant: models.PollutantO3, Value: 77, Category: "Moderate"},
		{Pollutant: models.PollutantNO2, Value: 30, Category: "Good"},
	}

	day, err := Aggregate(testDate, subs)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if day.AQI != 77 {
		t.Errorf("AQI = %d, want 77", day.AQI)
	}
	if day.Dominant != models.PollutantO3 {
		t.Errorf("Dominant = %s, want o3", day.Dominant)
	}
	if day.Category != "Moderate" {
		t.Errorf("Category = %q, want Moderate", day.Category)
	}
	if !day.Date.Equal(testDate) {
		t.Errorf("Date = %v, want %v", day.Date, testDate)
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	_, err := Aggregate(testDate, nil)
	if err == nil {
		t.Fatal("expected error for empty sub-index set")
	}
	var empty *EmptyInputError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyInputError, got %T: %v", err, err)
	}
	if !empty.Date.Equal(testDate) {
		t.Errorf("error date = %v, want %v", empty.Date, testDate)
	}
}

func TestAggregate_RoundHalfUp(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  int
	}{
		{"exact half rounds up", 77.5, 78},
		{"below half rounds down", 77.49, 77},
		{"above half rounds up", 77.51, 78},
		{"another half rounds up not to even", 50.5, 51},
		{"integer unchanged", 100.0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs := []models.SubIndex{{Pollutant: models.PollutantPM25, Value: tt.value}}
			day, err := Aggregate(testDate, subs)
			if err != nil {
				t.Fatalf("Aggregate failed: %v", err)
			}
			if day.AQI != tt.want {
				t.Errorf("AQI for %v = %d, want %d", tt.value, day.AQI, tt.want)
			}
		})
	}
}

func TestAggregate_TieBreakPriority(t *testing.T) {
	// Both round to 78; PM2.5 outranks CO for the dominant label even though
	// CO has the (fractionally) larger value.
	subs := []models.SubIndex{
		{Pollutant: models.PollutantCO, Value: 77.8, Category: "Moderate"},
		{Pollutant: models.PollutantPM25, Value: 77.6, Category: "Moderate"},
	}

	day, err := Aggregate(testDate, subs)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if day.AQI != 78 {
		t.Errorf("AQI = %d, want 78", day.AQI)
	}
	if day.Dominant != models.PollutantPM25 {
		t.Errorf("Dominant = %s, want pm25 (priority tie break)", day.Dominant)
	}
}

func TestAggregate_SinglePollutant(t *testing.T) {
	subs := []models.SubIndex{
		{Pollutant: models.PollutantNO2, Value: 30.2, Category: "Good"},
	}
	day, err := Aggregate(testDate, subs)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if day.AQI != 30 || day.Dominant != models.PollutantNO2 {
		t.Errorf("got AQI=%d dominant=%s, want 30/no2", day.AQI, day.Dominant)
	}
}
