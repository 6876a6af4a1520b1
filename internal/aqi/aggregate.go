package aqi

import (
	"math"
	"time"

	"github.com/afroash/airq/internal/models"
)

// roundHalfUp rounds to the nearest integer with ties going up, the EPA
// reporting convention. math.Round would also work for non-negative input,
// but the intent is spelled out here so nobody swaps in a half-even rounder.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Aggregate combines one observation's sub-indices into a DailyAQI using the
// EPA dominant-pollutant rule: the overall AQI is the maximum sub-index,
// rounded half-up. When several pollutants round to the same maximum, the
// dominant pollutant is chosen by the fixed priority PM2.5 > O3 > NO2 > CO;
// the AQI value itself is unaffected by the tie break.
func Aggregate(date time.Time, subs []models.SubIndex) (models.DailyAQI, error) {
	if len(subs) == 0 {
		return models.DailyAQI{}, &EmptyInputError{Date: date}
	}

	max := subs[0].Value
	for _, s := range subs[1:] {
		if s.Value > max {
			max = s.Value
		}
	}
	aqi := roundHalfUp(max)

	var dominant models.SubIndex
	found := false
	for _, p := range models.Pollutants() {
		for _, s := range subs {
			if s.Pollutant == p && roundHalfUp(s.Value) == aqi {
				dominant = s
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		// Sub-index set contains only unknown pollutants; fall back to the max.
		for _, s := range subs {
			if roundHalfUp(s.Value) == aqi {
				dominant = s
				break
			}
		}
	}

	return models.DailyAQI{
		Date:     date,
		AQI:      aqi,
		Dominant: dominant.Pollutant,
		Category: dominant.Category,
	}, nil
}
