package forecast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-crisislens/retrieval"
	"go-crisislens/textgen"
	"go-crisislens/types"
	"go-crisislens/viz"
)

// fakeRenderer records chart intents and hands back deterministic refs.
type fakeRenderer struct {
	intents []viz.ChartIntent
}

func (f *fakeRenderer) RenderDashboard(types.SummaryStats, types.PatternReport) (string, error) {
	return "dashboard.html", nil
}

func (f *fakeRenderer) RenderChart(intent viz.ChartIntent) (string, error) {
	f.intents = append(f.intents, intent)
	return intent.Name + ".html", nil
}

func i64(v int64) *int64 { return &v }

func linearTrendEvents() []types.Event {
	// Affected follows y = 100 + 50x for x = 0..5 over 2018..2023.
	var events []types.Event
	for x := 0; x <= 5; x++ {
		events = append(events, types.Event{
			DisNo:     "ev",
			Category:  "Flood",
			Country:   "Brazil",
			Region:    "Americas",
			StartYear: 2018 + x,
			Affected:  i64(int64(100 + 50*x)),
		})
	}
	return events
}

func TestInferMetric(t *testing.T) {
	assert.Equal(t, types.MetricDeaths, InferMetric("forecast deaths from storms"))
	assert.Equal(t, types.MetricAffected, InferMetric("people affected by floods"))
	assert.Equal(t, types.MetricInsuredDamage, InferMetric("insured damage outlook"))
	assert.Equal(t, types.MetricTotalDamage, InferMetric("damage projection"))
	assert.Equal(t, types.MetricTotalAffected, InferMetric("general outlook"))
}

func TestInferFilters(t *testing.T) {
	preds := InferFilters("Analyze flood in the Americas")

	require.Len(t, preds, 2)
	assert.Equal(t, Predicate{Field: "category", Value: "flood"}, preds[0])
	assert.Equal(t, Predicate{Field: "region", Value: "americas"}, preds[1])
	assert.Equal(t, "category = 'flood'", preds[0].String())
}

func TestAggregateByYearExcludesNullRows(t *testing.T) {
	events := []types.Event{
		{StartYear: 2020, Affected: i64(10)},
		{StartYear: 2020, Affected: i64(5)},
		{StartYear: 2021}, // null affected, excluded
		{StartYear: 2022, Affected: i64(7)},
	}

	series := aggregateByYear(events, types.MetricAffected)

	require.Len(t, series, 2)
	assert.Equal(t, types.ForecastPoint{Year: 2020, Value: 15}, series[0])
	assert.Equal(t, types.ForecastPoint{Year: 2022, Value: 7}, series[1])
}

func TestFitLinearKnownSlope(t *testing.T) {
	series := aggregateByYear(linearTrendEvents(), types.MetricAffected)

	slope, intercept := fitLinear(series)

	assert.InDelta(t, 50, slope, 1e-9)
	// y(2018) = 100 => intercept + slope*2018 = 100
	assert.InDelta(t, 100, intercept+slope*2018, 1e-6)
}

func TestAnnualGrowthPct(t *testing.T) {
	table := []types.ForecastPoint{
		{Year: 2015, Value: 100},
		{Year: 2025, Value: 200},
	}
	// Doubling over 10 years compounds to about 7.2% a year.
	assert.InDelta(t, 7.2, annualGrowthPct(table), 0.05)
}

func TestGenerateProjectsTrend(t *testing.T) {
	store := retrieval.NewMemoryStore(linearTrendEvents())
	renderer := &fakeRenderer{}
	engine := NewEngine(store, textgen.Stub{}, renderer)

	result, err := engine.Generate(context.Background(), "Analyze flood affected in americas")
	require.NoError(t, err)

	assert.Equal(t, types.MetricAffected, result.Metric)
	assert.Equal(t, []int{2024, 2025, 2026, 2027, 2028}, result.ForecastYears)
	assert.InDelta(t, 50, result.Slope, 1e-9)

	// The projection continues the fitted line.
	require.Len(t, result.Table, 11)
	last := result.Table[len(result.Table)-1]
	assert.True(t, last.Projected)
	assert.InDelta(t, 100+50*10, last.Value, 1e-6) // x=10 for 2028

	// Three chart artifacts, five narrative sections.
	assert.Len(t, result.Charts, 3)
	require.Len(t, renderer.intents, 3)
	assert.Equal(t, viz.ChartBar, renderer.intents[0].Kind)
	require.NotNil(t, renderer.intents[1].Boundary)
	assert.InDelta(t, 2023.5, *renderer.intents[1].Boundary, 1e-9)

	for _, section := range []string{
		"trend_analysis", "growth_decline_phases", "forecast_interpretation",
		"risk_implications", "conclusion",
	} {
		assert.Contains(t, result.Analysis, section)
		assert.NotEmpty(t, result.Analysis[section])
	}
}

func TestGenerateNotEnoughYears(t *testing.T) {
	store := retrieval.NewMemoryStore([]types.Event{
		{StartYear: 2020, Affected: i64(10)},
		{StartYear: 2021, Affected: i64(12)},
		{StartYear: 2022, Affected: i64(9)},
	})
	engine := NewEngine(store, textgen.Stub{}, &fakeRenderer{})

	_, err := engine.Generate(context.Background(), "affected outlook")
	assert.ErrorIs(t, err, ErrNotEnoughYears)
}

func TestGenerateDegradedNarrative(t *testing.T) {
	store := retrieval.NewMemoryStore(linearTrendEvents())
	engine := NewEngine(store, textgen.Stub{Err: assert.AnError}, &fakeRenderer{})

	result, err := engine.Generate(context.Background(), "flood affected forecast")
	require.NoError(t, err)

	// Generator failures degrade to placeholders, never to an error.
	assert.Equal(t, textgen.Placeholder, result.Analysis["conclusion"])
}
