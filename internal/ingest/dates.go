package ingest

import (
	"fmt"
	"strings"
	"time"
)

// dateAliases are accepted in place of a "date" header column.
var dateAliases = []string{"date", "day", "timestamp", "date_local"}

// dateLayouts are tried in order when parsing a date cell.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	time.RFC3339,
}

// parseDate parses a date cell and normalizes it to midnight UTC so dates
// join cleanly across input files.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q", s)
}

// normalizeHeader lower-cases a header cell and replaces spaces with
// underscores, so "Date Local" and "date_local" are the same column.
func normalizeHeader(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// findDateColumn returns the index of the date column, trying the accepted
// aliases in order.
func findDateColumn(header []string) (int, error) {
	for _, alias := range dateAliases {
		for i, col := range header {
			if col == alias {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("input CSV must contain a %q column (or one of %s)",
		"date", strings.Join(dateAliases[1:], "/"))
}
