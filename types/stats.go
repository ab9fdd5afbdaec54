package types

// NoDataMessage is the sentinel set on SummaryStats when a query matched
// nothing. Downstream consumers must check it before touching the numeric
// fields.
const NoDataMessage = "no data matching the criteria"

const sampleEventLimit = 5

// SummaryStats is the first-pass digest of a retrieval result.
type SummaryStats struct {
	Message string `json:"message,omitempty"`

	TotalEvents    int      `json:"total_events"`
	Categories     []string `json:"categories"`
	Countries      []string `json:"countries"`
	Years          YearSpan `json:"years"`
	TotalDeaths    int64    `json:"total_deaths"`
	TotalAffected  int64    `json:"total_affected"`
	TotalDamageUSD float64  `json:"total_damage_usd"`

	// SampleEvents keeps a small bounded slice of raw events for the
	// pattern mining done later in the run.
	SampleEvents []Event `json:"sample_events"`
}

// HasData reports whether the summary holds real numbers rather than the
// empty-result sentinel.
func (s *SummaryStats) HasData() bool {
	return s != nil && s.Message == "" && s.TotalEvents > 0
}

// SampleLimit is the bound on SummaryStats.SampleEvents.
func SampleLimit() int { return sampleEventLimit }

type YearSpan struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// EnhancedStats layers derived per-event ratios on top of SummaryStats.
type EnhancedStats struct {
	SummaryStats

	AvgDeathsPerEvent    float64 `json:"avg_deaths_per_event"`
	AvgAffectedPerEvent  float64 `json:"avg_affected_per_event"`
	AvgDamagePerEventUSD float64 `json:"avg_damage_per_event_usd"`
	YearRange            int     `json:"year_range"`
}

// PatternReport holds the temporal and spatial patterns mined from the
// summary's sample events.
type PatternReport struct {
	EventsPerYear   map[int]int `json:"events_per_year"`
	CommonLocations []string    `json:"common_locations"`

	Clusters []Cluster `json:"geospatial_clusters,omitempty"`
	// ClusterNote is set instead of Clusters when there were not enough
	// geocodable points to attempt clustering.
	ClusterNote string `json:"cluster_note,omitempty"`
}

// Cluster is one detected geospatial cluster of events.
type Cluster struct {
	PointCount int     `json:"point_count"`
	Centroid   LatLon  `json:"centroid"`
	RadiusKm   float64 `json:"radius_km"`
}

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
