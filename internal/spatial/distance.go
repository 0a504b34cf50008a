package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// HaversineDistance calculates the great-circle distance between two points in meters
// using the Haversine formula
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// RingAreaM2 calculates the geodesic area of a closed boundary ring in square meters.
// Used as a fallback when the spatial store does not report an area for a region.
func RingAreaM2(ring []Point) float64 {
	if len(ring) < 3 {
		return 0
	}

	pts := make([]s2.Point, 0, len(ring))
	for _, p := range ring {
		pts = append(pts, s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon)))
	}

	loop := s2.LoopFromPoints(pts)
	area := loop.Area()

	// A ring wound the wrong way encloses the complement of the region
	if area > 2*math.Pi {
		area = 4*math.Pi - area
	}

	return area * EarthRadiusMeters * EarthRadiusMeters
}

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers
)
