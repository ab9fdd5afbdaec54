// Package stats derives per-event ratios from a retrieval summary and mines
// the sample events for temporal and spatial patterns.
package stats

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go-crisislens/geocode"
	"go-crisislens/types"
)

// ErrNoEvents is returned by Enhance when the summary covers zero events.
// Dividing the impact sums by zero would be silent nonsense, so the caller
// must guard with HasData before asking for ratios.
var ErrNoEvents = errors.New("cannot derive per-event ratios: summary covers zero events")

const defaultTopLocations = 3

// Enhance computes the derived per-event ratios and the year span.
func Enhance(s types.SummaryStats) (types.EnhancedStats, error) {
	if s.TotalEvents == 0 {
		return types.EnhancedStats{}, ErrNoEvents
	}

	n := float64(s.TotalEvents)
	return types.EnhancedStats{
		SummaryStats:         s,
		AvgDeathsPerEvent:    float64(s.TotalDeaths) / n,
		AvgAffectedPerEvent:  float64(s.TotalAffected) / n,
		AvgDamagePerEventUSD: s.TotalDamageUSD / n,
		YearRange:            s.Years.Max - s.Years.Min,
	}, nil
}

// FindPatterns mines the summary's sample events: a year histogram, the most
// frequent location tokens and the geospatial clusters. Events without their
// own coordinates go through the geocoder; points that still have no
// coordinates are left out of clustering.
func FindPatterns(ctx context.Context, s types.SummaryStats, g geocode.Geocoder) types.PatternReport {
	report := types.PatternReport{
		EventsPerYear:   countEventsByYear(s.SampleEvents),
		CommonLocations: commonLocations(s.SampleEvents, defaultTopLocations),
	}

	points := collectPoints(ctx, s.SampleEvents, g)
	clusters, err := DetectClusters(points, DefaultEpsKm)
	if err != nil {
		report.ClusterNote = err.Error()
	} else {
		report.Clusters = clusters
	}

	return report
}

func countEventsByYear(events []types.Event) map[int]int {
	counts := make(map[int]int, len(events))
	for i := range events {
		counts[events[i].StartYear]++
	}
	return counts
}

// commonLocations splits each location string on commas, tallies the trimmed
// tokens and returns the topN by descending count. Ties keep first-seen
// order so repeated runs give identical answers.
func commonLocations(events []types.Event, topN int) []string {
	counts := make(map[string]int)
	var order []string

	for i := range events {
		if events[i].Location == "" {
			continue
		}
		for _, token := range strings.Split(events[i].Location, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			if counts[token] == 0 {
				order = append(order, token)
			}
			counts[token]++
		}
	}

	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})

	if len(order) > topN {
		order = order[:topN]
	}
	return order
}

func collectPoints(ctx context.Context, events []types.Event, g geocode.Geocoder) []types.LatLon {
	var points []types.LatLon
	for i := range events {
		e := &events[i]
		if e.HasCoordinates() {
			points = append(points, types.LatLon{Lat: *e.Latitude, Lon: *e.Longitude})
			continue
		}
		if g == nil || e.Location == "" {
			continue
		}
		if lat, lon, ok := g.Locate(ctx, e.Location); ok {
			points = append(points, types.LatLon{Lat: lat, Lon: lon})
		}
	}
	return points
}
