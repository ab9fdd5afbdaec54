// Package viz renders dashboards and charts as standalone HTML artifacts.
// Callers describe what to plot (series plus chart intent); everything about
// how it looks lives here.
package viz

import (
	"go-crisislens/types"
)

// ChartKind selects the plot shape.
type ChartKind string

const (
	ChartBar    ChartKind = "bar"
	ChartLine   ChartKind = "line"
	ChartGrowth ChartKind = "growth"
)

// Point is one x/y pair of a chart series.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ChartIntent is the semantic description of one chart artifact. Name
// becomes the file stem.
type ChartIntent struct {
	Name   string
	Kind   ChartKind
	Title  string
	XLabel string
	YLabel string
	Series []Point

	// Boundary, when set, draws a vertical marker at that x position
	// (the forecast start line).
	Boundary *float64
}

// Renderer is the visualization collaborator. Implementations return a file
// path reference; the pipeline only stores it.
type Renderer interface {
	RenderDashboard(stats types.SummaryStats, patterns types.PatternReport) (string, error)
	RenderChart(intent ChartIntent) (string, error)
}
