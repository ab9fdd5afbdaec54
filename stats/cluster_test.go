package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-crisislens/types"
)

func TestDetectClustersSingleTightCluster(t *testing.T) {
	// Three points within ~50km of each other around Rio de Janeiro.
	points := []types.LatLon{
		{Lat: -22.90, Lon: -43.20},
		{Lat: -22.95, Lon: -43.40},
		{Lat: -23.10, Lon: -43.25},
	}

	clusters, err := DetectClusters(points, 300)
	require.NoError(t, err)
	require.Len(t, clusters, 1)

	c := clusters[0]
	assert.Equal(t, 3, c.PointCount)
	assert.InDelta(t, (-22.90-22.95-23.10)/3, c.Centroid.Lat, 1e-9)
	assert.InDelta(t, (-43.20-43.40-43.25)/3, c.Centroid.Lon, 1e-9)

	// Radius is the max great-circle distance from the centroid to a
	// member; for points this close it stays well under 50km.
	assert.Greater(t, c.RadiusKm, 0.0)
	assert.Less(t, c.RadiusKm, 50.0)
}

func TestDetectClustersNoiseExcluded(t *testing.T) {
	points := []types.LatLon{
		// A pair near Rio...
		{Lat: -22.90, Lon: -43.20},
		{Lat: -23.00, Lon: -43.30},
		// ...and a lone point in Manaus, ~2800km away.
		{Lat: -3.10, Lon: -60.02},
	}

	clusters, err := DetectClusters(points, 300)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, 2, clusters[0].PointCount)
}

func TestDetectClustersTwoClusters(t *testing.T) {
	points := []types.LatLon{
		{Lat: -22.90, Lon: -43.20},
		{Lat: -23.00, Lon: -43.30},
		{Lat: -3.10, Lon: -60.02},
		{Lat: -3.20, Lon: -60.10},
	}

	clusters, err := DetectClusters(points, 300)
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	assert.Equal(t, 2, clusters[0].PointCount)
	assert.Equal(t, 2, clusters[1].PointCount)
}

func TestDetectClustersTooFewPoints(t *testing.T) {
	points := []types.LatLon{
		{Lat: -22.90, Lon: -43.20},
		{Lat: -23.00, Lon: -43.30},
	}

	_, err := DetectClusters(points, 300)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestDetectClustersDeterministicMembership(t *testing.T) {
	points := []types.LatLon{
		{Lat: -22.90, Lon: -43.20},
		{Lat: -23.00, Lon: -43.30},
		{Lat: -3.10, Lon: -60.02},
		{Lat: -3.20, Lon: -60.10},
		{Lat: 40.0, Lon: -100.0}, // noise
	}

	first, err := DetectClusters(points, 300)
	require.NoError(t, err)
	second, err := DetectClusters(points, 300)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHaversineDistanceKnownPair(t *testing.T) {
	// Rio de Janeiro to São Paulo is roughly 360km.
	d := haversineDistance(-22.91, -43.17, -23.55, -46.63)
	assert.InDelta(t, 360, d, 15)
}
