// Package storage persists pipeline results into a single SQLite file. The
// tables mirror the flat CSV outputs row for row; the store exists so past
// runs stay queryable without re-parsing CSVs.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/afroash/airq/internal/models"
)

// Store defines the interface for results storage.
type Store interface {
	Close() error
	Migrate() error
	InsertRun(runID string, days []models.DailyAQI, rows []models.ComparisonRow) error
	GetDailyInRange(start, end time.Time, limit int) ([]models.DailyAQI, error)
	GetComparisonForRun(runID string) ([]models.ComparisonRow, error)
	GetSummary() (*Summary, error)
}

// Compile-time interface check
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore handles persistent storage of computed results.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Summary contains information about the stored results.
type Summary struct {
	TotalDays      int64     `json:"total_days"`
	TotalRuns      int       `json:"total_runs"`
	OldestDate     time.Time `json:"oldest_date,omitempty"`
	NewestDate     time.Time `json:"newest_date,omitempty"`
	DatabaseSizeMB float64   `json:"database_size_mb"`
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore(dbPath string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Apply performance pragmas for SQLite
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	// Single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := store.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("SQLite results store initialized")

	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate creates the database schema if it doesn't exist.
func (s *SQLiteStore) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daily_aqi (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		date TEXT NOT NULL,
		aqi INTEGER NOT NULL,
		dominant TEXT NOT NULL,
		category TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS comparison (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		date TEXT NOT NULL,
		computed_aqi INTEGER NOT NULL,
		reference_aqi INTEGER NOT NULL,
		delta INTEGER NOT NULL,
		within_tolerance INTEGER NOT NULL,
		ratio REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_daily_aqi_date ON daily_aqi(date);
	CREATE INDEX IF NOT EXISTS idx_daily_aqi_run ON daily_aqi(run_id);
	CREATE INDEX IF NOT EXISTS idx_comparison_run ON comparison(run_id);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	s.logger.Debug().Msg("Database schema migrated")
	return nil
}

// InsertRun stores one pipeline run's results in a single transaction.
func (s *SQLiteStore) InsertRun(runID string, days []models.DailyAQI, rows []models.ComparisonRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	dayStmt, err := tx.Prepare(`
		INSERT INTO daily_aqi (run_id, date, aqi, dominant, category)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare daily insert: %w", err)
	}
	defer dayStmt.Close()

	for _, d := range days {
		_, err := dayStmt.Exec(runID, d.Date.Format("2006-01-02"), d.AQI, string(d.Dominant), d.Category)
		if err != nil {
			return fmt.Errorf("failed to insert daily aqi: %w", err)
		}
	}

	if len(rows) > 0 {
		cmpStmt, err := tx.Prepare(`
			INSERT INTO comparison (run_id, date, computed_aqi, reference_aqi, delta, within_tolerance, ratio)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare comparison insert: %w", err)
		}
		defer cmpStmt.Close()

		for _, r := range rows {
			within := 0
			if r.WithinTolerance {
				within = 1
			}
			_, err := cmpStmt.Exec(runID, r.Date.Format("2006-01-02"),
				r.ComputedAQI, r.ReferenceAQI, r.Delta, within, r.Ratio)
			if err != nil {
				return fmt.Errorf("failed to insert comparison row: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info().
		Str("run_id", runID).
		Int("daily_rows", len(days)).
		Int("comparison_rows", len(rows)).
		Msg("Run results stored")
	return nil
}

// GetDailyInRange returns stored daily AQI values within a date range,
// newest first.
func (s *SQLiteStore) GetDailyInRange(start, end time.Time, limit int) ([]models.DailyAQI, error) {
	query := `
		SELECT date, aqi, dominant, category
		FROM daily_aqi
		WHERE date BETWEEN ? AND ?
		ORDER BY date DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily aqi: %w", err)
	}
	defer rows.Close()

	var days []models.DailyAQI
	for rows.Next() {
		var d models.DailyAQI
		var dateStr, dominant string

		if err := rows.Scan(&dateStr, &d.AQI, &dominant, &d.Category); err != nil {
			return nil, fmt.Errorf("failed to scan daily aqi: %w", err)
		}

		d.Date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		d.Dominant = models.Pollutant(dominant)

		days = append(days, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return days, nil
}

// GetComparisonForRun returns the comparison rows stored for one run,
// ordered by date.
func (s *SQLiteStore) GetComparisonForRun(runID string) ([]models.ComparisonRow, error) {
	query := `
		SELECT date, computed_aqi, reference_aqi, delta, within_tolerance, ratio
		FROM comparison
		WHERE run_id = ?
		ORDER BY date ASC
	`

	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparison rows: %w", err)
	}
	defer rows.Close()

	var out []models.ComparisonRow
	for rows.Next() {
		var r models.ComparisonRow
		var dateStr string
		var within int

		err := rows.Scan(&dateStr, &r.ComputedAQI, &r.ReferenceAQI, &r.Delta, &within, &r.Ratio)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comparison row: %w", err)
		}

		r.Date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		r.WithinTolerance = within == 1

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return out, nil
}

// GetSummary returns statistics about the stored results.
func (s *SQLiteStore) GetSummary() (*Summary, error) {
	summary := &Summary{}

	err := s.db.QueryRow("SELECT COUNT(*) FROM daily_aqi").Scan(&summary.TotalDays)
	if err != nil {
		return nil, fmt.Errorf("failed to count daily rows: %w", err)
	}

	if summary.TotalDays == 0 {
		return summary, nil
	}

	err = s.db.QueryRow("SELECT COUNT(DISTINCT run_id) FROM daily_aqi").Scan(&summary.TotalRuns)
	if err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}

	var oldestStr, newestStr string
	err = s.db.QueryRow("SELECT MIN(date), MAX(date) FROM daily_aqi").Scan(&oldestStr, &newestStr)
	if err != nil {
		return nil, fmt.Errorf("failed to get date range: %w", err)
	}
	summary.OldestDate, _ = time.Parse("2006-01-02", oldestStr)
	summary.NewestDate, _ = time.Parse("2006-01-02", newestStr)

	var pageCount, pageSize int64
	s.db.QueryRow("PRAGMA page_count").Scan(&pageCount)
	s.db.QueryRow("PRAGMA page_size").Scan(&pageSize)
	summary.DatabaseSizeMB = float64(pageCount*pageSize) / (1024 * 1024)

	return summary, nil
}
