// Package geocode resolves free-text location strings to coordinates. The
// stats engine only needs a best-effort answer, so the Maps-backed
// implementation degrades to a static country-centroid table when the API is
// unavailable.
package geocode

import (
	"context"
	"fmt"
	"log"
	"strings"

	"googlemaps.github.io/maps"
)

// Geocoder resolves a location string to a lat/long pair. ok is false when
// the location could not be resolved; callers treat such points as
// non-geocodable rather than erroring.
type Geocoder interface {
	Locate(ctx context.Context, location string) (lat, lon float64, ok bool)
}

// staticCentroids is the naive fallback table: approximate country
// centroids for the dataset's region.
var staticCentroids = map[string][2]float64{
	"brazil":                   {-15.78, -47.93},
	"mexico":                   {23.63, -102.55},
	"canada":                   {56.13, -106.35},
	"united states of america": {39.83, -98.58},
	"colombia":                 {4.57, -74.30},
	"argentina":                {-38.42, -63.62},
	"peru":                     {-9.19, -75.02},
	"chile":                    {-35.68, -71.54},
	"ecuador":                  {-1.83, -78.18},
	"guatemala":                {15.78, -90.23},
	"honduras":                 {15.20, -86.24},
	"haiti":                    {18.97, -72.29},
	"cuba":                     {21.52, -77.78},
	"el salvador":              {13.79, -88.90},
	"nicaragua":                {12.87, -85.21},
	"dominican republic":       {18.74, -70.16},
	"jamaica":                  {18.11, -77.30},
	"panama":                   {8.54, -80.78},
	"costa rica":               {9.75, -83.75},
	"paraguay":                 {-23.44, -58.44},
	"uruguay":                  {-32.52, -55.77},
	"guyana":                   {4.86, -58.93},
	"suriname":                 {3.92, -56.03},
	"belize":                   {17.19, -88.50},
}

// Static resolves against the centroid table only. It is the default when no
// Maps key is configured.
type Static struct{}

func (Static) Locate(_ context.Context, location string) (float64, float64, bool) {
	key := strings.ToLower(strings.TrimSpace(location))
	if c, found := staticCentroids[key]; found {
		return c[0], c[1], true
	}
	// Location strings are comma-separated hierarchies; try the last
	// token, which is usually the coarsest (province or country).
	parts := strings.Split(key, ",")
	last := strings.TrimSpace(parts[len(parts)-1])
	if c, found := staticCentroids[last]; found {
		return c[0], c[1], true
	}
	return 0, 0, false
}

// MapsGeocoder forward-geocodes through the Google Maps API and falls back
// to the static table when the API has no answer.
type MapsGeocoder struct {
	client   *maps.Client
	fallback Static
}

// NewMapsGeocoder builds a geocoder from an explicit API key.
func NewMapsGeocoder(apiKey string) (*MapsGeocoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("maps API key not set")
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &MapsGeocoder{client: client}, nil
}

func (g *MapsGeocoder) Locate(ctx context.Context, location string) (float64, float64, bool) {
	req := &maps.GeocodingRequest{Address: location}

	results, err := g.client.Geocode(ctx, req)
	if err != nil {
		log.Printf("Failed to geocode %s: %v", location, err)
		return g.fallback.Locate(ctx, location)
	}
	if len(results) == 0 {
		log.Printf("No geocode results for %s", location)
		return g.fallback.Locate(ctx, location)
	}

	loc := results[0].Geometry.Location
	return loc.Lat, loc.Lng, true
}
