package stats

import (
	"errors"
	"math"

	"go-crisislens/types"
)

// ErrInsufficientData marks a clustering attempt over fewer than 3
// geocodable points. Expected on sparse data; callers report it as a note,
// not a failure.
var ErrInsufficientData = errors.New("insufficient geospatial data")

const (
	// DefaultEpsKm is the neighborhood radius used by FindPatterns.
	DefaultEpsKm = 300.0

	// minClusterPoints is the density threshold: a point needs this many
	// neighbors (itself included) within eps to seed a cluster.
	minClusterPoints = 2

	// kmPerDegree is the rough conversion used to express the km radius
	// in coordinate degrees for the neighborhood scan.
	kmPerDegree = 111.0

	earthRadiusKM = 6371.0

	noise      = -1
	unassigned = 0
)

// DetectClusters runs density-based clustering over the coordinate set.
// The neighborhood scan works in degree space (eps_km / 111); noise points
// are excluded from the result. Needs at least 3 points, otherwise
// ErrInsufficientData.
func DetectClusters(points []types.LatLon, epsKm float64) ([]types.Cluster, error) {
	if len(points) < 3 {
		return nil, ErrInsufficientData
	}

	epsDeg := epsKm / kmPerDegree
	labels := dbscan(points, epsDeg, minClusterPoints)

	// Collect members per cluster label, keeping label order stable.
	members := make(map[int][]types.LatLon)
	var labelOrder []int
	for i, label := range labels {
		if label == noise {
			continue
		}
		if _, seen := members[label]; !seen {
			labelOrder = append(labelOrder, label)
		}
		members[label] = append(members[label], points[i])
	}

	clusters := make([]types.Cluster, 0, len(labelOrder))
	for _, label := range labelOrder {
		pts := members[label]
		centroid := meanPoint(pts)
		clusters = append(clusters, types.Cluster{
			PointCount: len(pts),
			Centroid:   centroid,
			RadiusKm:   clusterRadiusKm(pts, centroid),
		})
	}

	return clusters, nil
}

// dbscan labels every point with a cluster id starting at 1, or noise.
// Classic flood-fill formulation: core points (>= minPts neighbors within
// eps) grow the cluster through their neighborhoods; border points join but
// do not expand.
func dbscan(points []types.LatLon, epsDeg float64, minPts int) []int {
	labels := make([]int, len(points))
	nextLabel := 0

	for i := range points {
		if labels[i] != unassigned {
			continue
		}

		neighbors := regionQuery(points, i, epsDeg)
		if len(neighbors) < minPts {
			labels[i] = noise
			continue
		}

		nextLabel++
		labels[i] = nextLabel

		queue := append([]int(nil), neighbors...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]

			if labels[j] == noise {
				// Border point reachable from a core point.
				labels[j] = nextLabel
			}
			if labels[j] != unassigned {
				continue
			}
			labels[j] = nextLabel

			jNeighbors := regionQuery(points, j, epsDeg)
			if len(jNeighbors) >= minPts {
				queue = append(queue, jNeighbors...)
			}
		}
	}

	return labels
}

func regionQuery(points []types.LatLon, idx int, epsDeg float64) []int {
	var neighbors []int
	for j := range points {
		if degreeDistance(points[idx], points[j]) <= epsDeg {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}

// degreeDistance is plain Euclidean distance in coordinate degrees, the same
// space the eps radius is expressed in.
func degreeDistance(a, b types.LatLon) float64 {
	dLat := a.Lat - b.Lat
	dLon := a.Lon - b.Lon
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

func meanPoint(pts []types.LatLon) types.LatLon {
	var sumLat, sumLon float64
	for _, p := range pts {
		sumLat += p.Lat
		sumLon += p.Lon
	}
	n := float64(len(pts))
	return types.LatLon{Lat: sumLat / n, Lon: sumLon / n}
}

// clusterRadiusKm is the max great-circle distance from the centroid to any
// member, rounded to 2 decimals.
func clusterRadiusKm(pts []types.LatLon, centroid types.LatLon) float64 {
	maxDist := 0.0
	for _, p := range pts {
		if d := haversineDistance(centroid.Lat, centroid.Lon, p.Lat, p.Lon); d > maxDist {
			maxDist = d
		}
	}
	return math.Round(maxDist*100) / 100
}

// haversineDistance calculates the great-circle distance between two points
// on the earth (specified in decimal degrees).
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	radLat1 := lat1 * math.Pi / 180
	radLon1 := lon1 * math.Pi / 180
	radLat2 := lat2 * math.Pi / 180
	radLon2 := lon2 * math.Pi / 180

	deltaLat := radLat2 - radLat1
	deltaLon := radLon2 - radLon1

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(radLat1)*math.Cos(radLat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}
