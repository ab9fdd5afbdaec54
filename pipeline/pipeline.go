// Package pipeline is the multi-stage analysis workflow: parse, validate,
// retrieve, analyze, visualize, forecast, report, format. A Context value is
// threaded through the stages; each stage takes the prior state and returns
// a new one, and once a validation error is recorded every later stage
// relays the state unchanged.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"go-crisislens/forecast"
	"go-crisislens/geocode"
	"go-crisislens/parser"
	"go-crisislens/report"
	"go-crisislens/retrieval"
	"go-crisislens/stats"
	"go-crisislens/types"
	"go-crisislens/viz"
)

// Context is the state threaded through one pipeline run. It is owned by a
// single run; concurrent requests each get their own.
type Context struct {
	Prompt string

	Category string
	Country  string
	Year     *int

	// ValidationError, once set, short-circuits every later stage except
	// the terminal formatting one.
	ValidationError string

	Records  []types.Event
	Summary  *types.SummaryStats
	Enhanced *types.EnhancedStats
	Patterns *types.PatternReport
	Forecast *types.ForecastResult

	// ForecastNote carries the not-enough-data warning when forecasting
	// was skipped; the run still succeeds.
	ForecastNote string
	// ReportNote carries a report-only failure; the dashboard reference
	// still reaches the caller.
	ReportNote string

	DashboardRef string
	ReportRef    string

	// Status is the latest human-readable progress or result text.
	Status string
}

// Result is the well-formed response handed back to the entry point.
type Result struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	DashboardRef string `json:"dashboard_path,omitempty"`
	ReportRef    string `json:"report_path,omitempty"`
}

// Result folds the final context into the response shape.
func (c Context) Result() Result {
	status := "success"
	if c.ValidationError != "" {
		status = "error"
	}
	return Result{
		Status:       status,
		Message:      c.Status,
		DashboardRef: c.DashboardRef,
		ReportRef:    c.ReportRef,
	}
}

// Orchestrator glues the stages together and owns the collaborator set.
type Orchestrator struct {
	retriever  *retrieval.Retriever
	geocoder   geocode.Geocoder
	forecaster *forecast.Engine
	renderer   viz.Renderer
	composer   *report.Composer

	// resolveLocation, when set, gets a shot at prompts the country
	// vocabulary missed. Optional.
	resolveLocation parser.LocationResolver
}

func New(
	retriever *retrieval.Retriever,
	geocoder geocode.Geocoder,
	forecaster *forecast.Engine,
	renderer viz.Renderer,
	composer *report.Composer,
) *Orchestrator {
	return &Orchestrator{
		retriever:  retriever,
		geocoder:   geocoder,
		forecaster: forecaster,
		renderer:   renderer,
		composer:   composer,
	}
}

// WithLocationResolver installs the optional vocabulary-miss fallback.
func (o *Orchestrator) WithLocationResolver(r parser.LocationResolver) *Orchestrator {
	o.resolveLocation = r
	return o
}

type stageFn func(ctx context.Context, st Context) Context

// Run executes the workflow for one prompt and returns the final context.
// No fault escapes: stage panics are folded into ValidationError.
func (o *Orchestrator) Run(ctx context.Context, prompt string) Context {
	st := Context{Prompt: prompt}

	st = o.runStage(ctx, st, "parse_input", o.parseInput, false)
	st = o.runStage(ctx, st, "validate_input", o.validateInput, false)

	if st.ValidationError != "" {
		// Conditional edge: invalid input goes straight to the terminal
		// error node, skipping all work stages.
		return o.handleError(st)
	}

	st = o.runStage(ctx, st, "retrieve_data", o.retrieveData, true)
	st = o.runStage(ctx, st, "analyze_statistics", o.analyzeStatistics, true)
	st = o.runStage(ctx, st, "generate_visualizations", o.generateVisualizations, true)
	st = o.runStage(ctx, st, "generate_forecast", o.generateForecast, true)
	st = o.runStage(ctx, st, "generate_report", o.generateReport, true)

	return o.formatOutput(st)
}

// runStage applies the relay guard and the local failure boundary around one
// stage.
func (o *Orchestrator) runStage(ctx context.Context, st Context, name string, fn stageFn, relayOnError bool) (out Context) {
	if relayOnError && st.ValidationError != "" {
		return st
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Stage %s panicked: %v", name, r)
			out = st
			out.ValidationError = fmt.Sprintf("%s failed: %v", name, r)
			out.Status = fmt.Sprintf("Error during %s: %v", name, r)
		}
	}()

	return fn(ctx, st)
}

func (o *Orchestrator) parseInput(_ context.Context, st Context) Context {
	category, country, year := parser.Parse(st.Prompt)

	if country == "" && o.resolveLocation != nil {
		country = o.resolveLocation(st.Prompt)
	}

	st.Category = category
	st.Country = country
	st.Year = year
	st.Status = "Input parsed"
	return st
}

func (o *Orchestrator) validateInput(_ context.Context, st Context) Context {
	if st.Category == "" || st.Country == "" {
		st.ValidationError = "missing required fields (disaster type and country)"
		st.Status = "Error: missing required fields"
	}
	return st
}

// handleError is the terminal node for input errors.
func (o *Orchestrator) handleError(st Context) Context {
	err := st.ValidationError
	if err == "" {
		err = "unknown error"
	}
	st.Status = "Input error: " + err
	return st
}

func (o *Orchestrator) retrieveData(ctx context.Context, st Context) Context {
	var years *retrieval.YearRange
	if st.Year != nil {
		years = retrieval.Exact(*st.Year)
	}

	records, err := o.retriever.Retrieve(ctx, st.Category, st.Country, years, 0)
	if err != nil {
		st.ValidationError = fmt.Sprintf("data retrieval failed: %v", err)
		st.Status = fmt.Sprintf("Error retrieving data: %v", err)
		return st
	}

	summary := retrieval.Summarize(records)
	st.Records = records
	st.Summary = &summary
	st.Status = "Data retrieved successfully"
	return st
}

func (o *Orchestrator) analyzeStatistics(ctx context.Context, st Context) Context {
	if st.Summary == nil {
		st.ValidationError = "no statistics available for analysis"
		st.Status = "Error: no data available for analysis"
		return st
	}

	// Zero matching rows is the expected empty-result case: report it as
	// the terminal message instead of dividing by zero in Enhance.
	if !st.Summary.HasData() {
		st.ValidationError = st.Summary.Message
		st.Status = "Error: " + st.Summary.Message
		return st
	}

	enhanced, err := stats.Enhance(*st.Summary)
	if err != nil {
		st.ValidationError = fmt.Sprintf("statistical analysis failed: %v", err)
		st.Status = fmt.Sprintf("Error during analysis: %v", err)
		return st
	}
	patterns := stats.FindPatterns(ctx, *st.Summary, o.geocoder)

	st.Enhanced = &enhanced
	st.Patterns = &patterns
	st.Status = "Statistical analysis completed"
	return st
}

func (o *Orchestrator) generateVisualizations(_ context.Context, st Context) Context {
	path, err := o.renderer.RenderDashboard(*st.Summary, *st.Patterns)
	if err != nil {
		st.ValidationError = fmt.Sprintf("visualization failed: %v", err)
		st.Status = fmt.Sprintf("Error generating visualizations: %v", err)
		return st
	}

	st.DashboardRef = path
	st.Status = "Visualizations generated at " + path
	return st
}

func (o *Orchestrator) generateForecast(ctx context.Context, st Context) Context {
	forecastPrompt := fmt.Sprintf("Analyze %s in %s", st.Category, st.Country)
	if st.Year != nil {
		forecastPrompt += fmt.Sprintf(" for year %d", *st.Year)
	}

	result, err := o.forecaster.Generate(ctx, forecastPrompt)
	if err != nil {
		if errors.Is(err, forecast.ErrNotEnoughYears) {
			// A short history is a warning, not a failure: the report
			// simply goes out without a forecast section.
			st.ForecastNote = err.Error()
			st.Status = "Forecast skipped: " + err.Error()
			return st
		}
		st.ValidationError = fmt.Sprintf("forecast generation failed: %v", err)
		st.Status = fmt.Sprintf("Error generating forecast: %v", err)
		return st
	}

	st.Forecast = result
	st.Status = "Forecast data generated successfully"
	return st
}

func (o *Orchestrator) generateReport(ctx context.Context, st Context) Context {
	path, err := o.composer.Generate(ctx,
		report.Input{Category: st.Category, Country: st.Country, Year: st.Year},
		*st.Summary, *st.Enhanced, *st.Patterns, st.Forecast, st.DashboardRef)
	if err != nil {
		// Report failures are fatal to the report only; the dashboard
		// and stats still go back to the caller.
		log.Printf("Report generation failed: %v", err)
		st.ReportNote = err.Error()
		st.Status = fmt.Sprintf("Report generation failed: %v", err)
		return st
	}

	st.ReportRef = path
	st.Status = "Final report generated at " + path
	return st
}

// formatOutput composes the final status message from whatever fields are
// populated; absent fields are skipped, never rendered as placeholders.
func (o *Orchestrator) formatOutput(st Context) Context {
	if st.ValidationError != "" {
		st.Status = "Processing failed: " + st.ValidationError
		return st
	}

	var b strings.Builder
	b.WriteString("Processing completed successfully!\n")
	fmt.Fprintf(&b, "Disaster: %s\n", titleWords(st.Category))
	fmt.Fprintf(&b, "Country: %s\n", titleWords(st.Country))
	if st.Year != nil {
		fmt.Fprintf(&b, "Year: %d\n", *st.Year)
	}
	if st.DashboardRef != "" {
		fmt.Fprintf(&b, "\nDashboard: file://%s\n", st.DashboardRef)
	}
	if st.ReportRef != "" {
		fmt.Fprintf(&b, "\nFull Report: file://%s\n", st.ReportRef)
	}
	if st.ForecastNote != "" {
		fmt.Fprintf(&b, "\nNote: %s\n", st.ForecastNote)
	}
	if st.ReportNote != "" {
		fmt.Fprintf(&b, "\nNote: report unavailable (%s)\n", st.ReportNote)
	}

	st.Status = b.String()
	return st
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 && w[0] >= 'a' && w[0] <= 'z' {
			words[i] = string(w[0]-('a'-'A')) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
