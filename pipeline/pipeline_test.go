package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-crisislens/forecast"
	"go-crisislens/geocode"
	"go-crisislens/report"
	"go-crisislens/retrieval"
	"go-crisislens/textgen"
	"go-crisislens/types"
	"go-crisislens/viz"
)

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

// brazilFloods gives six consecutive years of flood records with coordinates
// around Rio, enough history for a forecast fit.
func brazilFloods() []types.Event {
	var events []types.Event
	base := []struct{ lat, lon float64 }{
		{-22.90, -43.20},
		{-22.95, -43.25},
		{-22.85, -43.15},
		{-22.91, -43.18},
		{-22.88, -43.22},
		{-22.93, -43.17},
	}
	for x := 0; x <= 5; x++ {
		events = append(events, types.Event{
			DisNo:     "2020-000" + string(rune('1'+x)),
			Category:  "Flood",
			EventName: "Seasonal flood",
			Country:   "Brazil",
			Region:    "Americas",
			Location:  "Rio de Janeiro, Brazil",
			Latitude:  f64(base[x].lat),
			Longitude: f64(base[x].lon),
			StartYear: 2018 + x,
			Deaths:    i64(int64(10 + x)),
			Affected:  i64(int64(100 + 50*x)),
			DamageUSD: f64(float64(1000 * (x + 1))),
		})
	}
	return events
}

func newOrchestrator(t *testing.T, store retrieval.EventStore) *Orchestrator {
	t.Helper()
	gen := textgen.Stub{}
	outDir := t.TempDir()
	renderer := viz.NewHTMLRenderer(outDir)
	return New(
		retrieval.NewRetriever(store),
		geocode.Static{},
		forecast.NewEngine(store, gen, renderer),
		renderer,
		report.NewComposer(gen, t.TempDir()),
	)
}

func TestRunMissingFields(t *testing.T) {
	o := newOrchestrator(t, retrieval.NewMemoryStore(nil))

	st := o.Run(context.Background(), "tell me something interesting")

	res := st.Result()
	assert.Equal(t, "error", res.Status)
	assert.Contains(t, res.Message, "missing required fields")
	// Invalid input bypasses every work stage: nothing downstream is set.
	assert.Nil(t, st.Records)
	assert.Nil(t, st.Summary)
	assert.Empty(t, st.DashboardRef)
	assert.Empty(t, st.ReportRef)
}

func TestRunNoMatchingData(t *testing.T) {
	store := retrieval.NewMemoryStore([]types.Event{
		{DisNo: "x", Category: "Earthquake", Country: "Japan", StartYear: 2020},
	})
	o := newOrchestrator(t, store)

	st := o.Run(context.Background(), "Do an analysis on flood in Brazil")

	res := st.Result()
	assert.Equal(t, "error", res.Status)
	assert.Contains(t, res.Message, "no data matching the criteria")
	// Zero rows stops before the ratio math; no enhanced stats exist.
	assert.Nil(t, st.Enhanced)
	assert.Nil(t, st.Patterns)
	assert.Empty(t, st.DashboardRef)
}

func TestRunRetrievalError(t *testing.T) {
	store := retrieval.NewMemoryStore(nil)
	store.Err = errors.New("connection refused")
	o := newOrchestrator(t, store)

	st := o.Run(context.Background(), "Do an analysis on flood in Brazil")

	res := st.Result()
	assert.Equal(t, "error", res.Status)
	assert.Contains(t, res.Message, "data retrieval failed")
	assert.Contains(t, res.Message, "connection refused")
	assert.Empty(t, st.DashboardRef)
	assert.Empty(t, st.ReportRef)
}

func TestRunEndToEnd(t *testing.T) {
	store := retrieval.NewMemoryStore(brazilFloods())
	o := newOrchestrator(t, store)

	st := o.Run(context.Background(), "Do an analysis on flood in Brazil")

	res := st.Result()
	require.Equal(t, "success", res.Status, st.Status)
	assert.Equal(t, "flood", st.Category)
	assert.Equal(t, "brazil", st.Country)
	assert.Nil(t, st.Year)

	require.NotNil(t, st.Summary)
	assert.Equal(t, 6, st.Summary.TotalEvents)
	require.NotNil(t, st.Enhanced)
	require.NotNil(t, st.Patterns)

	require.NotNil(t, st.Forecast)
	assert.Equal(t, []int{2024, 2025, 2026, 2027, 2028}, st.Forecast.ForecastYears)

	require.NotEmpty(t, res.DashboardRef)
	_, err := os.Stat(res.DashboardRef)
	assert.NoError(t, err)
	require.NotEmpty(t, res.ReportRef)
	_, err = os.Stat(res.ReportRef)
	assert.NoError(t, err)

	assert.Contains(t, res.Message, "Processing completed successfully!")
	assert.Contains(t, res.Message, "Disaster: Flood")
	assert.Contains(t, res.Message, "Country: Brazil")
	assert.NotContains(t, res.Message, "Year:")
}

func TestRunWithYear(t *testing.T) {
	store := retrieval.NewMemoryStore(brazilFloods())
	o := newOrchestrator(t, store)

	st := o.Run(context.Background(), "Analyze flood in Brazil in 2020")

	require.NotNil(t, st.Year)
	assert.Equal(t, 2020, *st.Year)
	require.NotNil(t, st.Summary)
	// An exact year keeps only that year's record.
	assert.Equal(t, 1, st.Summary.TotalEvents)
}

func TestRunForecastShortHistory(t *testing.T) {
	// Three distinct years: plenty for stats, too few for a trend fit.
	events := brazilFloods()[:3]
	store := retrieval.NewMemoryStore(events)
	o := newOrchestrator(t, store)

	st := o.Run(context.Background(), "Do an analysis on flood in Brazil")

	res := st.Result()
	assert.Equal(t, "success", res.Status, st.Status)
	assert.Nil(t, st.Forecast)
	assert.NotEmpty(t, st.ForecastNote)
	assert.NotEmpty(t, res.DashboardRef)
	assert.NotEmpty(t, res.ReportRef)
	assert.Contains(t, res.Message, "Note:")
}

func TestRunIsRepeatable(t *testing.T) {
	store := retrieval.NewMemoryStore(brazilFloods())
	o := newOrchestrator(t, store)

	first := o.Run(context.Background(), "Do an analysis on flood in Brazil")
	second := o.Run(context.Background(), "Do an analysis on flood in Brazil")

	assert.Equal(t, first.Result(), second.Result())
}

func TestLocationResolverFallback(t *testing.T) {
	store := retrieval.NewMemoryStore(brazilFloods())
	o := newOrchestrator(t, store).WithLocationResolver(func(string) string {
		return "brazil"
	})

	st := o.Run(context.Background(), "Do an analysis on flood near the Amazon basin")

	assert.Equal(t, "brazil", st.Country)
	assert.Equal(t, "success", st.Result().Status, st.Status)
}
