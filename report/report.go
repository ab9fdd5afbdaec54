// Package report assembles the final narrative report: section structure and
// context live here, the prose itself comes from the text-generation
// collaborator.
package report

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-crisislens/textgen"
	"go-crisislens/types"
)

// Input recaps the parsed request the report is about.
type Input struct {
	Category string
	Country  string
	Year     *int
}

// Composer builds and writes the report document.
type Composer struct {
	gen        textgen.Generator
	reportsDir string
}

func NewComposer(gen textgen.Generator, reportsDir string) *Composer {
	return &Composer{gen: gen, reportsDir: reportsDir}
}

type metadata struct {
	Title        string
	Date         string
	Timeframe    string
	DisasterType string
	Country      string
}

type section struct {
	Heading string
	Body    string
}

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>{{.Meta.Title}}</title>
    <style>
        body { font-family: Georgia, serif; max-width: 900px; margin: auto; padding: 20px; }
        h1 { border-bottom: 2px solid #333; }
        .meta { color: #666; }
        .section { margin-bottom: 30px; white-space: pre-wrap; }
    </style>
</head>
<body>
    <h1>{{.Meta.Title}}</h1>
    <p class="meta">{{.Meta.Date}} &mdash; {{.Meta.DisasterType}} in {{.Meta.Country}}, {{.Meta.Timeframe}}</p>
    {{range .Sections}}
    <div class="section">
        <h2>{{.Heading}}</h2>
        <div>{{.Body}}</div>
    </div>
    {{end}}
    {{if .DashboardRef}}
    <div class="section">
        <h2>Dashboard</h2>
        <p><a href="file://{{.DashboardRef}}">Interactive dashboard</a></p>
    </div>
    {{end}}
</body>
</html>
`

// Generate composes the report from the computed artifacts and writes it
// under the reports dir, returning the file path. Missing upstream inputs
// are an error: report generation fails but the caller keeps whatever other
// artifacts it already has.
func (c *Composer) Generate(
	ctx context.Context,
	input Input,
	stats types.SummaryStats,
	analysis types.EnhancedStats,
	patterns types.PatternReport,
	fc *types.ForecastResult,
	dashboardRef string,
) (string, error) {
	if input.Category == "" || input.Country == "" {
		return "", fmt.Errorf("insufficient data for report generation: missing disaster type or country")
	}
	if !stats.HasData() {
		return "", fmt.Errorf("insufficient data for report generation: no summary statistics")
	}
	if analysis.TotalEvents == 0 {
		return "", fmt.Errorf("insufficient data for report generation: no enhanced statistics")
	}

	meta := metadata{
		Title:        fmt.Sprintf("Comprehensive Analysis of %s in %s", titleCase(input.Category), titleCase(input.Country)),
		Date:         time.Now().Format("January 2006"),
		Timeframe:    fmt.Sprintf("%d-%d", stats.Years.Min, stats.Years.Max),
		DisasterType: titleCase(input.Category),
		Country:      titleCase(input.Country),
	}

	sections := c.buildSections(ctx, meta, stats, analysis, patterns, fc)

	return c.save(meta, sections, dashboardRef)
}

func (c *Composer) buildSections(
	ctx context.Context,
	meta metadata,
	stats types.SummaryStats,
	analysis types.EnhancedStats,
	patterns types.PatternReport,
	fc *types.ForecastResult,
) []section {
	base := map[string]any{
		"disasterType": meta.DisasterType,
		"country":      meta.Country,
		"timeframe":    meta.Timeframe,
	}
	with := func(extra map[string]any) map[string]any {
		data := make(map[string]any, len(base)+len(extra))
		for k, v := range base {
			data[k] = v
		}
		for k, v := range extra {
			data[k] = v
		}
		return data
	}

	gen := func(tmpl string, extra map[string]any) string {
		return textgen.GenerateOrPlaceholder(ctx, c.gen, tmpl, with(extra))
	}

	sections := []section{
		{
			Heading: "Executive Summary",
			Body: gen(`Create a 1-page executive summary for a disaster report about {{.disasterType}} in {{.country}} covering {{.timeframe}}. Key statistics:
- Total events: {{.totalEvents}}
- Total deaths: {{.totalDeaths}}
- Total affected: {{.totalAffected}}
- Average deaths per event: {{printf "%.2f" .avgDeaths}}
- Average affected per event: {{printf "%.2f" .avgAffected}}`,
				map[string]any{
					"totalEvents":   stats.TotalEvents,
					"totalDeaths":   stats.TotalDeaths,
					"totalAffected": stats.TotalAffected,
					"avgDeaths":     analysis.AvgDeathsPerEvent,
					"avgAffected":   analysis.AvgAffectedPerEvent,
				}),
		},
		{
			Heading: "Methodology",
			Body: gen(`Write a methodology section detailing:
1. Data sources (curated disaster event store)
2. Analysis techniques (statistical, geospatial clustering)
3. Time period covered: {{.timeframe}}
4. Limitations of the dataset`, nil),
		},
		{
			Heading: "Temporal Patterns",
			Body: gen(`Analyze temporal patterns in the data:
- Yearly distribution of events: {{.eventsPerYear}}
- Trends in mortality rates
- Changes in affected populations
Key stats: {{.totalEvents}} events, {{.totalDeaths}} deaths, {{.totalAffected}} affected`,
				map[string]any{
					"eventsPerYear": patterns.EventsPerYear,
					"totalEvents":   stats.TotalEvents,
					"totalDeaths":   stats.TotalDeaths,
					"totalAffected": stats.TotalAffected,
				}),
		},
		{
			Heading: "Geographic Distribution",
			Body: gen(`Analyze geographic distribution:
- Hotspot locations: {{.hotspots}}
- Regional vulnerabilities
- Urban vs rural impacts`,
				map[string]any{"hotspots": patterns.CommonLocations}),
		},
		{
			Heading: "Recommendations",
			Body: gen(`Generate policy recommendations based on:
- Total damage: ${{printf "%.2f" .totalDamage}}
- Most affected regions: {{.regions}}
- Key vulnerabilities identified
Include both short-term and long-term strategies.`,
				map[string]any{
					"totalDamage": stats.TotalDamageUSD,
					"regions":     patterns.CommonLocations,
				}),
		},
	}

	if fc != nil {
		order := []struct{ key, heading string }{
			{"trend_analysis", "Forecast: Trend Analysis"},
			{"growth_decline_phases", "Forecast: Growth and Decline Phases"},
			{"forecast_interpretation", "Forecast: Interpretation"},
			{"risk_implications", "Forecast: Risk Implications"},
			{"conclusion", "Forecast: Conclusion"},
		}
		for _, o := range order {
			if body, found := fc.Analysis[o.key]; found {
				sections = append(sections, section{Heading: o.heading, Body: body})
			}
		}
	}

	return sections
}

func (c *Composer) save(meta metadata, sections []section, dashboardRef string) (string, error) {
	if err := os.MkdirAll(c.reportsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports dir: %w", err)
	}

	// Filename derives from the title; concurrent runs with identical
	// inputs will race on it, callers wanting isolation configure
	// distinct report dirs.
	filename := strings.ReplaceAll(meta.Title, " ", "_") + ".html"
	path := filepath.Join(c.reportsDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	tmpl := template.Must(template.New("report").Parse(reportTemplate))
	err = tmpl.Execute(f, struct {
		Meta         metadata
		Sections     []section
		DashboardRef string
	}{meta, sections, dashboardRef})
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	return filepath.Abs(path)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 && w[0] >= 'a' && w[0] <= 'z' {
			words[i] = string(w[0]-('a'-'A')) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
