package types

// Metric names a forecastable impact column of the event table.
type Metric string

const (
	MetricDeaths         Metric = "total_deaths"
	MetricInjured        Metric = "no_injured"
	MetricAffected       Metric = "no_affected"
	MetricHomeless       Metric = "no_homeless"
	MetricInsuredDamage  Metric = "insured_damage_usd"
	MetricReconstruction Metric = "reconstruction_costs_usd"
	MetricTotalDamage    Metric = "total_damage_usd"
	MetricTotalAffected  Metric = "total_affected"
)

// Title renders the metric for chart axes and prose, e.g. "Total Deaths".
func (m Metric) Title() string {
	out := make([]byte, 0, len(m))
	upper := true
	for i := 0; i < len(m); i++ {
		c := m[i]
		if c == '_' {
			out = append(out, ' ')
			upper = true
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		out = append(out, c)
	}
	return string(out)
}

// ForecastPoint is one row of the combined historical+projected series.
type ForecastPoint struct {
	Year      int     `json:"year"`
	Value     float64 `json:"value"`
	Projected bool    `json:"projected"`
}

// ForecastResult carries everything the forecast run produced: the combined
// series, the fitted model, the chart artifact references and the narrative
// sections keyed by name.
type ForecastResult struct {
	Metric  Metric   `json:"metric"`
	Filters []string `json:"filters,omitempty"`

	Table         []ForecastPoint `json:"forecast_table"`
	ForecastYears []int           `json:"forecast_years"`

	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	// AnnualGrowthPct is the compound annual growth rate across the
	// combined table, in percent.
	AnnualGrowthPct float64 `json:"annual_growth_pct"`

	// Charts maps chart kind ("historical", "forecast", "growth") to the
	// artifact reference returned by the renderer.
	Charts map[string]string `json:"charts"`

	// Analysis maps section name (trend_analysis, growth_decline_phases,
	// forecast_interpretation, risk_implications, conclusion) to prose.
	Analysis map[string]string `json:"analysis"`
}
