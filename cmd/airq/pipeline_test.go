package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/afroash/airq/internal/config"
	"github.com/afroash/airq/internal/storage"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return records
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	rawPath := filepath.Join(dir, "raw.csv")
	epaPath := filepath.Join(dir, "epa.csv")
	dbPath := filepath.Join(dir, "results.db")

	// O3 arrives in ppb; one row has a missing pollutant and one row is
	// entirely empty and must be skipped, not zeroed.
	writeFile(t, rawPath, `date,pm25,o3,no2,co
2024-01-01,10.0,40,20,0.5
2024-01-02,20.0,,25,0.6
2024-01-03,,,,
`)
	writeFile(t, epaPath, `date,aqi
2024-01-01,42
2024-01-02,70
`)

	var cfg config.Config
	cfg.ApplyDefaults()
	cfg.Output.Dir = filepath.Join(dir, "results")

	err := run(&cfg, zerolog.Nop(), "test-run", options{
		rawPath: rawPath,
		epaPath: epaPath,
		trend:   "ME",
		dbPath:  dbPath,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	computed := readRows(t, filepath.Join(cfg.Output.Dir, "aqi_computed.csv"))
	if len(computed) != 3 { // header + 2 data rows, empty day skipped
		t.Fatalf("computed CSV has %d rows, want 3", len(computed))
	}
	if computed[1][0] != "2024-01-01" {
		t.Errorf("first computed date = %q, want 2024-01-01", computed[1][0])
	}

	compare := readRows(t, filepath.Join(cfg.Output.Dir, "aqi_compare.csv"))
	if len(compare) != 3 {
		t.Fatalf("comparison CSV has %d rows, want 3", len(compare))
	}

	trend := readRows(t, filepath.Join(cfg.Output.Dir, "aqi_trend_ME.csv"))
	if len(trend) != 2 {
		t.Fatalf("trend CSV has %d rows, want 2 (one month)", len(trend))
	}
	if trend[1][0] != "2024-01-31" {
		t.Errorf("trend period = %q, want 2024-01-31", trend[1][0])
	}

	compareTrend := readRows(t, filepath.Join(cfg.Output.Dir, "aqi_trend_compare_ME.csv"))
	if len(compareTrend) != 2 {
		t.Fatalf("comparison trend CSV has %d rows, want 2", len(compareTrend))
	}

	store, err := storage.NewSQLiteStore(dbPath, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to reopen results db: %v", err)
	}
	defer store.Close()

	days, err := store.GetDailyInRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		100,
	)
	if err != nil {
		t.Fatalf("GetDailyInRange failed: %v", err)
	}
	if len(days) != 2 {
		t.Errorf("stored %d daily rows, want 2", len(days))
	}

	rows, err := store.GetComparisonForRun("test-run")
	if err != nil {
		t.Fatalf("GetComparisonForRun failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("stored %d comparison rows, want 2", len(rows))
	}
}

func TestRun_MissingRawFile(t *testing.T) {
	var cfg config.Config
	cfg.ApplyDefaults()
	cfg.Output.Dir = t.TempDir()

	err := run(&cfg, zerolog.Nop(), "test-run", options{
		rawPath: filepath.Join(cfg.Output.Dir, "nope.csv"),
	})
	if err == nil {
		t.Fatal("expected error for missing raw file")
	}
}

func TestRun_BadTrendFrequency(t *testing.T) {
	dir := t.TempDir()
	rawPath := filepath.Join(dir, "raw.csv")
	writeFile(t, rawPath, "date,pm25\n2024-01-01,10\n")

	var cfg config.Config
	cfg.ApplyDefaults()
	cfg.Output.Dir = filepath.Join(dir, "results")

	err := run(&cfg, zerolog.Nop(), "test-run", options{
		rawPath: rawPath,
		trend:   "W",
	})
	if err == nil {
		t.Fatal("expected error for unknown trend frequency")
	}
}
