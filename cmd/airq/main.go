package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/afroash/airq/internal/analysis"
	"github.com/afroash/airq/internal/aqi"
	"github.com/afroash/airq/internal/config"
	"github.com/afroash/airq/internal/ingest"
	"github.com/afroash/airq/internal/models"
	"github.com/afroash/airq/internal/report"
	"github.com/afroash/airq/internal/storage"
)

const version = "v0.3.0"

func main() {
	// .env is optional; real settings come from the config file and env.
	_ = godotenv.Load()

	rawPath := flag.String("raw", "", "CSV with columns: date, pm25, o3, no2, co (required)")
	epaPath := flag.String("epa", "", "reference AQI CSV with columns: date, aqi")
	outPath := flag.String("out", "", "output CSV for computed AQI (default <output dir>/aqi_computed.csv)")
	compareOut := flag.String("compare-out", "", "output CSV for comparison (default <output dir>/aqi_compare.csv)")
	trend := flag.String("trend", "", "also write an aggregated trend CSV: D, ME, or YE")
	plots := flag.Bool("plots", false, "render PNG charts into the output directory")
	dbPath := flag.String("db", "", "also store results into this SQLite file")
	configPath := flag.String("config", "configs/airq.yaml", "path to config file")
	flag.Parse()

	if *rawPath == "" {
		flag.Usage()
		log.Fatal("missing required -raw flag")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg.Logging)
	runID := uuid.NewString()
	logger = logger.With().Str("run_id", runID).Logger()

	logger.Info().
		Str("version", version).
		Str("raw", *rawPath).
		Msg("Starting AQI pipeline")

	if err := run(cfg, logger, runID, options{
		rawPath:    *rawPath,
		epaPath:    *epaPath,
		outPath:    *outPath,
		compareOut: *compareOut,
		trend:      *trend,
		plots:      *plots,
		dbPath:     *dbPath,
	}); err != nil {
		logger.Fatal().Err(err).Msg("Pipeline failed")
	}

	logger.Info().Msg("Pipeline finished")
}

type options struct {
	rawPath    string
	epaPath    string
	outPath    string
	compareOut string
	trend      string
	plots      bool
	dbPath     string
}

func newLogger(cfg config.LoggingSettings) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func run(cfg *config.Config, logger zerolog.Logger, runID string, opts options) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if opts.outPath == "" {
		opts.outPath = filepath.Join(cfg.Output.Dir, "aqi_computed.csv")
	}
	if opts.compareOut == "" {
		opts.compareOut = filepath.Join(cfg.Output.Dir, "aqi_compare.csv")
	}

	readings, err := ingest.ReadPollutants(opts.rawPath, logger)
	if err != nil {
		return err
	}

	engine := aqi.NewEngine(aqi.Options{
		O3PpbThreshold:   cfg.Engine.O3PpbThreshold,
		OutOfRangePolicy: aqi.OutOfRangePolicy(cfg.Engine.OutOfRangePolicy),
	}, logger)

	days := computeAll(engine, readings, logger)
	if len(days) == 0 {
		return fmt.Errorf("no observation produced an AQI")
	}

	if err := report.WriteComputedCSV(opts.outPath, days); err != nil {
		return err
	}
	logger.Info().Str("path", opts.outPath).Int("rows", len(days)).Msg("Wrote computed AQI")

	var comparison []models.ComparisonRow
	if opts.epaPath != "" {
		reference, err := ingest.ReadReferenceAQI(opts.epaPath, logger)
		if err != nil {
			return err
		}
		comparison = analysis.NewComparer(cfg.Engine.ComparisonTolerance).Compare(days, reference)
		if err := report.WriteComparisonCSV(opts.compareOut, comparison); err != nil {
			return err
		}
		logger.Info().
			Str("path", opts.compareOut).
			Int("rows", len(comparison)).
			Float64("match_rate", analysis.MatchRate(comparison)).
			Msg("Wrote comparison table")
	} else if opts.plots {
		logger.Warn().Msg("No -epa file given, comparison charts will be skipped")
	}

	var trendPoints []models.TrendPoint
	var trendFreq analysis.Frequency
	if opts.trend != "" {
		trendFreq, err = analysis.ParseFrequency(opts.trend)
		if err != nil {
			return err
		}
		trendPoints = analysis.Trend(days, trendFreq)
		trendPath := filepath.Join(cfg.Output.Dir, fmt.Sprintf("aqi_trend_%s.csv", trendFreq))
		if err := report.WriteTrendCSV(trendPath, trendPoints); err != nil {
			return err
		}
		logger.Info().Str("path", trendPath).Int("rows", len(trendPoints)).Msg("Wrote trend table")

		if len(comparison) > 0 {
			comparePoints := analysis.TrendCompare(comparison, trendFreq)
			comparePath := filepath.Join(cfg.Output.Dir, fmt.Sprintf("aqi_trend_compare_%s.csv", trendFreq))
			if err := report.WriteComparisonTrendCSV(comparePath, comparePoints); err != nil {
				return err
			}
			logger.Info().Str("path", comparePath).Int("rows", len(comparePoints)).Msg("Wrote comparison trend table")
		}
	}

	if opts.plots {
		renderCharts(cfg.Output.Dir, comparison, trendPoints, trendFreq, logger)
	}

	dbPath := opts.dbPath
	if dbPath == "" {
		dbPath = cfg.Output.DBPath
	}
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		store, err := storage.NewSQLiteStore(dbPath, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.InsertRun(runID, days, comparison); err != nil {
			return err
		}
	}

	return nil
}

// computeAll runs the engine over every reading. The engine itself never
// skips; the per-row recovery decision lives here: drop the observation,
// log why, and keep going.
func computeAll(engine *aqi.Engine, readings []*models.Reading, logger zerolog.Logger) []models.DailyAQI {
	days := make([]models.DailyAQI, 0, len(readings))
	skipped := 0

	for _, r := range readings {
		day, _, err := engine.ComputeDaily(r)
		if err != nil {
			skipped++
			var empty *aqi.EmptyInputError
			if errors.As(err, &empty) {
				logger.Debug().Time("date", r.Date).Msg("No pollutant readings for date, skipping")
			} else {
				logger.Warn().Err(err).Time("date", r.Date).Msg("Skipping observation")
			}
			continue
		}
		days = append(days, day)
	}

	logger.Info().
		Int("computed", len(days)).
		Int("skipped", skipped).
		Msg("Computed daily AQI values")
	return days
}

// renderCharts draws whatever charts the available data supports. A failed
// chart is a warning, not a pipeline failure.
func renderCharts(dir string, comparison []models.ComparisonRow, trendPoints []models.TrendPoint, trendFreq analysis.Frequency, logger zerolog.Logger) {
	renderer, err := report.NewChartRenderer(dir, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Chart rendering skipped")
		return
	}

	if len(comparison) > 0 {
		if err := renderer.DailyComparison(comparison); err != nil {
			logger.Warn().Err(err).Msg("Daily comparison chart skipped")
		}
		monthly := analysis.TrendCompare(comparison, analysis.FreqMonthEnd)
		if err := renderer.MonthlyComparison(monthly); err != nil {
			logger.Warn().Err(err).Msg("Monthly comparison chart skipped")
		}
		yearly := analysis.TrendCompare(comparison, analysis.FreqYearEnd)
		if err := renderer.YearlyComparison(yearly); err != nil {
			logger.Warn().Err(err).Msg("Yearly comparison chart skipped")
		}
		if err := renderer.Scatter(comparison); err != nil {
			logger.Warn().Err(err).Msg("Scatter chart skipped")
		}
	}

	if len(trendPoints) > 0 && trendFreq == analysis.FreqMonthEnd {
		if err := renderer.MonthlyTrend(trendPoints); err != nil {
			logger.Warn().Err(err).Msg("Monthly trend chart skipped")
		}
	}
}
