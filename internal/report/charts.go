package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/afroash/airq/internal/analysis"
	"github.com/afroash/airq/internal/models"
)

// ChartRenderer renders the summary PNG charts into a directory.
type ChartRenderer struct {
	dir    string
	logger zerolog.Logger
}

// NewChartRenderer creates a renderer writing into dir, creating it if needed.
func NewChartRenderer(dir string, logger zerolog.Logger) (*ChartRenderer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}
	return &ChartRenderer{dir: dir, logger: logger}, nil
}

// renderable is satisfied by both chart.Chart and chart.BarChart.
type renderable interface {
	Render(chart.RendererProvider, io.Writer) error
}

func (c *ChartRenderer) render(name string, graph renderable) error {
	path := filepath.Join(c.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	c.logger.Info().Str("path", path).Msg("Chart written")
	return nil
}

func comparisonSeries(rows []models.ComparisonRow) ([]time.Time, []float64, []float64) {
	xs := make([]time.Time, len(rows))
	computed := make([]float64, len(rows))
	reference := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = r.Date
		computed[i] = float64(r.ComputedAQI)
		reference[i] = float64(r.ReferenceAQI)
	}
	return xs, computed, reference
}

// DailyComparison draws computed and reference AQI as day-by-day lines.
func (c *ChartRenderer) DailyComparison(rows []models.ComparisonRow) error {
	if len(rows) < 2 {
		return fmt.Errorf("daily comparison needs at least 2 rows, have %d", len(rows))
	}
	xs, computed, reference := comparisonSeries(rows)

	graph := chart.Chart{
		Title: "Daily AQI: computed vs reference",
		XAxis: chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		Series: []chart.Series{
			chart.TimeSeries{Name: "Computed", XValues: xs, YValues: computed},
			chart.TimeSeries{Name: "Reference", XValues: xs, YValues: reference},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return c.render("aqi_daily_comparison.png", &graph)
}

// MonthlyComparison draws monthly mean computed and reference AQI lines.
func (c *ChartRenderer) MonthlyComparison(points []analysis.ComparisonTrendPoint) error {
	if len(points) < 2 {
		return fmt.Errorf("monthly comparison needs at least 2 periods, have %d", len(points))
	}
	xs := make([]time.Time, len(points))
	computed := make([]float64, len(points))
	reference := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Period
		computed[i] = p.ComputedMean
		reference[i] = p.ReferenceMean
	}

	graph := chart.Chart{
		Title: "Monthly mean AQI: computed vs reference",
		XAxis: chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		Series: []chart.Series{
			chart.TimeSeries{Name: "Computed", XValues: xs, YValues: computed},
			chart.TimeSeries{Name: "Reference", XValues: xs, YValues: reference},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return c.render("aqi_monthly_lines.png", &graph)
}

// YearlyComparison draws yearly mean computed AQI as bars.
func (c *ChartRenderer) YearlyComparison(points []analysis.ComparisonTrendPoint) error {
	if len(points) == 0 {
		return fmt.Errorf("yearly comparison needs at least 1 period")
	}
	bars := make([]chart.Value, 0, len(points))
	for _, p := range points {
		bars = append(bars, chart.Value{
			Label: p.Period.Format("2006"),
			Value: p.ComputedMean,
		})
	}

	graph := chart.BarChart{
		Title:    "Yearly mean computed AQI",
		Height:   512,
		BarWidth: 60,
		Bars:     bars,
	}
	return c.render("aqi_yearly_bars.png", &graph)
}

// Scatter draws reference AQI against computed AQI; points on the diagonal
// agree exactly.
func (c *ChartRenderer) Scatter(rows []models.ComparisonRow) error {
	if len(rows) < 2 {
		return fmt.Errorf("scatter needs at least 2 rows, have %d", len(rows))
	}
	_, computed, reference := comparisonSeries(rows)

	graph := chart.Chart{
		Title: "Reference vs computed AQI",
		XAxis: chart.XAxis{Name: "Reference AQI"},
		YAxis: chart.YAxis{Name: "Computed AQI"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Days",
				XValues: reference,
				YValues: computed,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    4,
				},
			},
		},
	}
	return c.render("aqi_reference_scatter.png", &graph)
}

// MonthlyTrend draws the monthly mean computed AQI line.
func (c *ChartRenderer) MonthlyTrend(points []models.TrendPoint) error {
	if len(points) < 2 {
		return fmt.Errorf("monthly trend needs at least 2 periods, have %d", len(points))
	}
	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Period
		ys[i] = p.MeanAQI
	}

	graph := chart.Chart{
		Title: "Monthly mean computed AQI",
		XAxis: chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		Series: []chart.Series{
			chart.TimeSeries{Name: "Computed AQI", XValues: xs, YValues: ys},
		},
	}
	return c.render("aqi_trend.png", &graph)
}
