package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-crisislens/types"
)

func TestEnhance(t *testing.T) {
	summary := types.SummaryStats{
		TotalEvents:    115,
		Countries:      []string{"Brazil"},
		Years:          types.YearSpan{Min: 2000, Max: 2024},
		TotalDeaths:    3591,
		TotalAffected:  11688233,
		TotalDamageUSD: 15414070000,
	}

	enhanced, err := Enhance(summary)
	require.NoError(t, err)

	assert.InDelta(t, 31.23, enhanced.AvgDeathsPerEvent, 0.01)
	assert.InDelta(t, 101636.81, enhanced.AvgAffectedPerEvent, 0.01)
	assert.InDelta(t, 134035391.3, enhanced.AvgDamagePerEventUSD, 0.1)
	assert.Equal(t, 24, enhanced.YearRange)
}

func TestEnhanceZeroEvents(t *testing.T) {
	_, err := Enhance(types.SummaryStats{Message: types.NoDataMessage})
	assert.ErrorIs(t, err, ErrNoEvents)
}

func TestCountEventsByYear(t *testing.T) {
	events := []types.Event{
		{StartYear: 2000}, {StartYear: 2000}, {StartYear: 2001},
	}
	report := FindPatterns(context.Background(), types.SummaryStats{SampleEvents: events}, nil)

	assert.Equal(t, map[int]int{2000: 2, 2001: 1}, report.EventsPerYear)
}

func TestCommonLocationsTopNAndTies(t *testing.T) {
	events := []types.Event{
		{Location: "Rio de Janeiro city, Rio de Janeiro province"},
		{Location: "Recife city, Pernambuco province"},
		{Location: "Rio de Janeiro city"},
		{Location: "Belo Horizonte district"},
	}

	report := FindPatterns(context.Background(), types.SummaryStats{SampleEvents: events}, nil)

	require.Len(t, report.CommonLocations, 3)
	// "Rio de Janeiro city" appears twice and must lead; the single-count
	// tokens keep first-seen order.
	assert.Equal(t, "Rio de Janeiro city", report.CommonLocations[0])
	assert.Equal(t, "Rio de Janeiro province", report.CommonLocations[1])
	assert.Equal(t, "Recife city", report.CommonLocations[2])
}

func TestFindPatternsInsufficientCoordinates(t *testing.T) {
	lat, lon := -22.9, -43.2
	events := []types.Event{
		{StartYear: 2000, Latitude: &lat, Longitude: &lon},
		{StartYear: 2001},
	}

	report := FindPatterns(context.Background(), types.SummaryStats{SampleEvents: events}, nil)

	assert.Empty(t, report.Clusters)
	assert.Equal(t, ErrInsufficientData.Error(), report.ClusterNote)
}
