// Package forecast fits a linear trend over a year-aggregated impact metric
// and projects it five years past the last observation, producing chart
// intents and narrative sections along the way.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"go-crisislens/retrieval"
	"go-crisislens/textgen"
	"go-crisislens/types"
	"go-crisislens/viz"
)

// ErrNotEnoughYears is the expected shortfall condition: fewer than 5
// distinct data years. Callers treat it as a warning and continue without a
// forecast.
var ErrNotEnoughYears = errors.New("not enough data for forecasting")

const (
	minYearsForFit  = 5
	forecastHorizon = 5
)

// Engine wires the store, the text-generation collaborator and the chart
// renderer into one forecast run.
type Engine struct {
	store    retrieval.EventStore
	gen      textgen.Generator
	renderer viz.Renderer
}

func NewEngine(store retrieval.EventStore, gen textgen.Generator, renderer viz.Renderer) *Engine {
	return &Engine{store: store, gen: gen, renderer: renderer}
}

// Generate runs the full forecast for a request text: metric and filter
// inference, year aggregation over non-null rows, the OLS fit, the
// projection, three chart artifacts and five narrative sections.
func (e *Engine) Generate(ctx context.Context, prompt string) (*types.ForecastResult, error) {
	metric := InferMetric(prompt)
	preds := InferFilters(prompt)

	f := retrieval.Filter{Limit: retrieval.DefaultLimit}
	var filterStrings []string
	for _, p := range preds {
		switch p.Field {
		case "category":
			f.Category = p.Value
		case "region":
			f.Region = p.Value
		}
		filterStrings = append(filterStrings, p.String())
	}

	events, err := e.store.Query(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("forecast data query failed: %w", err)
	}

	series := aggregateByYear(events, metric)
	if len(series) < minYearsForFit {
		return nil, ErrNotEnoughYears
	}

	slope, intercept := fitLinear(series)

	maxYear := series[len(series)-1].Year
	result := &types.ForecastResult{
		Metric:    metric,
		Filters:   filterStrings,
		Table:     series,
		Slope:     slope,
		Intercept: intercept,
		Charts:    make(map[string]string),
		Analysis:  make(map[string]string),
	}

	for y := maxYear + 1; y <= maxYear+forecastHorizon; y++ {
		result.ForecastYears = append(result.ForecastYears, y)
		result.Table = append(result.Table, types.ForecastPoint{
			Year:      y,
			Value:     intercept + slope*float64(y),
			Projected: true,
		})
	}

	result.AnnualGrowthPct = annualGrowthPct(result.Table)

	e.renderCharts(result, series, maxYear)
	e.writeAnalysis(ctx, result)

	return result, nil
}

// aggregateByYear sums the metric per start year, dropping rows where the
// metric is null, and returns the series sorted by year.
func aggregateByYear(events []types.Event, metric types.Metric) []types.ForecastPoint {
	sums := make(map[int]float64)
	for i := range events {
		e := &events[i]
		if e.StartYear == 0 {
			continue
		}
		if v := metricValue(e, metric); v != nil {
			sums[e.StartYear] += *v
		}
	}

	series := make([]types.ForecastPoint, 0, len(sums))
	for year, sum := range sums {
		series = append(series, types.ForecastPoint{Year: year, Value: sum})
	}
	sort.Slice(series, func(a, b int) bool { return series[a].Year < series[b].Year })
	return series
}

// fitLinear is ordinary least squares of value against year.
func fitLinear(series []types.ForecastPoint) (slope, intercept float64) {
	n := float64(len(series))
	var sumX, sumY float64
	for _, p := range series {
		sumX += float64(p.Year)
		sumY += p.Value
	}
	meanX := sumX / n
	meanY := sumY / n

	var num, den float64
	for _, p := range series {
		dx := float64(p.Year) - meanX
		num += dx * (p.Value - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0, meanY
	}
	slope = num / den
	return slope, meanY - slope*meanX
}

// annualGrowthPct is the compound annual growth rate over the combined
// table, in percent. Zero when the span is degenerate or the first value is
// not positive.
func annualGrowthPct(table []types.ForecastPoint) float64 {
	if len(table) < 2 {
		return 0
	}
	first := table[0]
	last := table[len(table)-1]
	span := last.Year - first.Year
	if span <= 0 || first.Value <= 0 || last.Value <= 0 {
		return 0
	}
	return (math.Pow(last.Value/first.Value, 1/float64(span)) - 1) * 100
}

func (e *Engine) renderCharts(result *types.ForecastResult, historical []types.ForecastPoint, maxYear int) {
	metricTitle := result.Metric.Title()
	stem := strings.ToLower(string(result.Metric))

	histSeries := toPoints(historical)
	if path, err := e.renderer.RenderChart(viz.ChartIntent{
		Name:   "historical_" + stem + "_bar",
		Kind:   viz.ChartBar,
		Title:  "Historical " + metricTitle,
		XLabel: "Year",
		YLabel: metricTitle,
		Series: histSeries,
	}); err != nil {
		log.Printf("Warning: failed to render historical chart: %v", err)
	} else {
		result.Charts["historical"] = path
	}

	boundary := float64(maxYear) + 0.5
	if path, err := e.renderer.RenderChart(viz.ChartIntent{
		Name:     "forecast_" + stem,
		Kind:     viz.ChartLine,
		Title:    metricTitle + " Forecast",
		XLabel:   "Year",
		YLabel:   metricTitle,
		Series:   toPoints(result.Table),
		Boundary: &boundary,
	}); err != nil {
		log.Printf("Warning: failed to render forecast chart: %v", err)
	} else {
		result.Charts["forecast"] = path
	}

	if path, err := e.renderer.RenderChart(viz.ChartIntent{
		Name:   "growth_" + stem,
		Kind:   viz.ChartGrowth,
		Title:  "Growth Rate in " + metricTitle,
		XLabel: "Year",
		YLabel: "Growth %",
		Series: growthSeries(historical),
	}); err != nil {
		log.Printf("Warning: failed to render growth chart: %v", err)
	} else {
		result.Charts["growth"] = path
	}
}

func toPoints(series []types.ForecastPoint) []viz.Point {
	out := make([]viz.Point, len(series))
	for i, p := range series {
		out[i] = viz.Point{X: float64(p.Year), Y: p.Value}
	}
	return out
}

// growthSeries is year-over-year percent change of the historical series.
func growthSeries(historical []types.ForecastPoint) []viz.Point {
	var out []viz.Point
	for i := 1; i < len(historical); i++ {
		prev := historical[i-1].Value
		if prev == 0 {
			continue
		}
		pct := (historical[i].Value - prev) / prev * 100
		out = append(out, viz.Point{X: float64(historical[i].Year), Y: pct})
	}
	return out
}

var analysisSections = []struct {
	name string
	tmpl string
}{
	{"trend_analysis", "Analyze this year-wise trend for {{.metric}}:\n\n{{.table}}"},
	{"growth_decline_phases", "Based on the following data, identify the biggest spikes and drops in {{.metric}} over time. Explain what patterns emerge:\n\n{{.table}}"},
	{"forecast_interpretation", "Based on the historical and forecasted values from this dataset, explain the trends from {{.firstForecastYear}} to {{.lastForecastYear}}:\n\n{{.table}}"},
	{"risk_implications", "What does this data suggest about future risks or vulnerabilities related to {{.metric}}? Here is the data:\n\n{{.table}}"},
	{"conclusion", "Summarize insights, patterns, and uncertainties using this dataset:\n\n{{.table}}"},
}

func (e *Engine) writeAnalysis(ctx context.Context, result *types.ForecastResult) {
	data := map[string]any{
		"metric":            strings.ToLower(result.Metric.Title()),
		"table":             tableMarkdown(result),
		"firstForecastYear": result.ForecastYears[0],
		"lastForecastYear":  result.ForecastYears[len(result.ForecastYears)-1],
	}

	for _, section := range analysisSections {
		result.Analysis[section.name] = textgen.GenerateOrPlaceholder(ctx, e.gen, section.tmpl, data)
	}
}

// tableMarkdown renders the combined table for use as prompt context.
func tableMarkdown(result *types.ForecastResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "| Year | %s | Projected |\n|---|---|---|\n", result.Metric.Title())
	for _, p := range result.Table {
		fmt.Fprintf(&b, "| %d | %.2f | %t |\n", p.Year, p.Value, p.Projected)
	}
	return b.String()
}
