package viz

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go-crisislens/types"
)

// HTMLRenderer writes self-contained HTML files that plot through the
// plotly CDN. OutputDir is created on demand.
type HTMLRenderer struct {
	OutputDir string
}

func NewHTMLRenderer(outputDir string) *HTMLRenderer {
	return &HTMLRenderer{OutputDir: outputDir}
}

const dashboardTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>Disaster Analysis Dashboard</title>
    <script src="https://cdn.plot.ly/plotly-latest.min.js"></script>
    <style>
        .dashboard { font-family: Arial; max-width: 1200px; margin: auto; }
        .panel { background: white; border-radius: 10px; padding: 15px;
                 margin-bottom: 20px; box-shadow: 0 2px 5px rgba(0,0,0,0.1); }
    </style>
</head>
<body>
    <div class="dashboard">
        <h1>Disaster Analysis Report</h1>
        <div class="panel">
            <h2>1. Event Timeline</h2>
            <div id="timeline"></div>
        </div>
        <div class="panel">
            <h2>2. Impact Comparison</h2>
            <div id="impact"></div>
        </div>
        <div class="panel">
            <h2>3. Event Locations</h2>
            {{if .HasMap}}<div id="map"></div>{{else}}<p>No geographic data available</p>{{end}}
        </div>
    </div>
    <script>
        Plotly.newPlot("timeline", [{x: {{.TimelineX}}, y: {{.TimelineY}}, mode: "lines+markers"}],
            {title: "Event Frequency Timeline"});
        Plotly.newPlot("impact", [{x: {{.ImpactX}}, y: {{.ImpactY}}, type: "bar"}],
            {title: "Impact Comparison"});
        {{if .HasMap}}
        Plotly.newPlot("map", [{lat: {{.MapLat}}, lon: {{.MapLon}}, type: "scattergeo", mode: "markers",
            marker: {color: "red", opacity: 0.5}}],
            {title: "Event Locations", geo: {projection: {type: "natural earth"}}});
        {{end}}
    </script>
</body>
</html>
`

type dashboardData struct {
	TimelineX template.JS
	TimelineY template.JS
	ImpactX   template.JS
	ImpactY   template.JS
	HasMap    bool
	MapLat    template.JS
	MapLon    template.JS
}

// RenderDashboard writes the three-panel dashboard (timeline, impact, map)
// and returns its absolute path.
func (r *HTMLRenderer) RenderDashboard(stats types.SummaryStats, patterns types.PatternReport) (string, error) {
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	years := make([]int, 0, len(patterns.EventsPerYear))
	for y := range patterns.EventsPerYear {
		years = append(years, y)
	}
	sort.Ints(years)
	counts := make([]int, len(years))
	for i, y := range years {
		counts[i] = patterns.EventsPerYear[y]
	}

	var lats, lons []float64
	for i := range stats.SampleEvents {
		e := &stats.SampleEvents[i]
		if e.HasCoordinates() {
			lats = append(lats, *e.Latitude)
			lons = append(lons, *e.Longitude)
		}
	}

	data := dashboardData{
		TimelineX: mustJS(years),
		TimelineY: mustJS(counts),
		ImpactX:   mustJS([]string{"Deaths", "Affected", "Damage"}),
		ImpactY:   mustJS([]float64{float64(stats.TotalDeaths), float64(stats.TotalAffected), stats.TotalDamageUSD}),
		HasMap:    len(lats) > 0,
		MapLat:    mustJS(lats),
		MapLon:    mustJS(lons),
	}

	tmpl := template.Must(template.New("dashboard").Parse(dashboardTemplate))
	path := filepath.Join(r.OutputDir, "dashboard.html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create dashboard file: %w", err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return "", fmt.Errorf("failed to render dashboard: %w", err)
	}

	return filepath.Abs(path)
}

const chartTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <script src="https://cdn.plot.ly/plotly-latest.min.js"></script>
</head>
<body>
    <div id="chart" style="max-width:900px;margin:auto;"></div>
    <script>
        Plotly.newPlot("chart", [{x: {{.X}}, y: {{.Y}}, type: {{.PlotType}}, mode: "lines+markers"}],
            {title: {{.Title}}, xaxis: {title: {{.XLabel}}}, yaxis: {title: {{.YLabel}}},
             shapes: {{.Shapes}}});
    </script>
</body>
</html>
`

type chartData struct {
	Title    string
	XLabel   string
	YLabel   string
	PlotType template.JS
	X        template.JS
	Y        template.JS
	Shapes   template.JS
}

// RenderChart writes one chart artifact named after the intent.
func (r *HTMLRenderer) RenderChart(intent ChartIntent) (string, error) {
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	xs := make([]float64, len(intent.Series))
	ys := make([]float64, len(intent.Series))
	for i, p := range intent.Series {
		xs[i] = p.X
		ys[i] = p.Y
	}

	plotType := `"scatter"`
	if intent.Kind == ChartBar {
		plotType = `"bar"`
	}

	shapes := "[]"
	if intent.Boundary != nil {
		shapes = fmt.Sprintf(
			`[{type: "line", x0: %[1]f, x1: %[1]f, yref: "paper", y0: 0, y1: 1, line: {color: "red", dash: "dash"}}]`,
			*intent.Boundary)
	}

	data := chartData{
		Title:    intent.Title,
		XLabel:   intent.XLabel,
		YLabel:   intent.YLabel,
		PlotType: template.JS(plotType),
		X:        mustJS(xs),
		Y:        mustJS(ys),
		Shapes:   template.JS(shapes),
	}

	name := strings.ToLower(intent.Name)
	if name == "" {
		name = string(intent.Kind)
	}
	path := filepath.Join(r.OutputDir, name+".html")

	tmpl := template.Must(template.New("chart").Parse(chartTemplate))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}

	return filepath.Abs(path)
}

func mustJS(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		// Only reachable with non-serializable input, which these chart
		// payloads never are.
		return template.JS("[]")
	}
	return template.JS(b)
}
