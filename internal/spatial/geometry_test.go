package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func square(lat, lon, side float64) []Point {
	return []Point{
		{Lat: lat, Lon: lon},
		{Lat: lat, Lon: lon + side},
		{Lat: lat + side, Lon: lon + side},
		{Lat: lat + side, Lon: lon},
	}
}

func TestBoundingBox(t *testing.T) {
	minLat, minLon, maxLat, maxLon := BoundingBox([]Point{
		{Lat: 48.85, Lon: 2.35},
		{Lat: 48.90, Lon: 2.30},
		{Lat: 48.80, Lon: 2.40},
	})

	assert.Equal(t, 48.80, minLat)
	assert.Equal(t, 2.30, minLon)
	assert.Equal(t, 48.90, maxLat)
	assert.Equal(t, 2.40, maxLon)
}

func TestBoundingBoxEmpty(t *testing.T) {
	minLat, minLon, maxLat, maxLon := BoundingBox(nil)
	assert.Zero(t, minLat)
	assert.Zero(t, minLon)
	assert.Zero(t, maxLat)
	assert.Zero(t, maxLon)
}

func TestPointInPolygon(t *testing.T) {
	poly := square(48.80, 2.30, 0.10)

	assert.True(t, PointInPolygon(Point{Lat: 48.85, Lon: 2.35}, poly))
	assert.False(t, PointInPolygon(Point{Lat: 48.95, Lon: 2.35}, poly), "north of the square")
	assert.False(t, PointInPolygon(Point{Lat: 48.85, Lon: 2.45}, poly), "east of the square")
}

func TestPointInPolygonConcave(t *testing.T) {
	// L-shape: the square with its north-east quadrant removed
	poly := []Point{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 2},
		{Lat: 1, Lon: 2},
		{Lat: 1, Lon: 1},
		{Lat: 2, Lon: 1},
		{Lat: 2, Lon: 0},
	}

	assert.True(t, PointInPolygon(Point{Lat: 0.5, Lon: 0.5}, poly))
	assert.True(t, PointInPolygon(Point{Lat: 1.5, Lon: 0.5}, poly))
	assert.False(t, PointInPolygon(Point{Lat: 1.5, Lon: 1.5}, poly), "inside the notch")
}

func TestPointInPolygonDegenerate(t *testing.T) {
	assert.False(t, PointInPolygon(Point{Lat: 1, Lon: 1}, []Point{{Lat: 0, Lon: 0}, {Lat: 2, Lon: 2}}))
}

func TestHaversineDistance(t *testing.T) {
	// One degree of latitude along a meridian
	d := HaversineDistance(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 10)

	// Paris to London, a well-known ~343 km hop
	d = HaversineDistance(48.8566, 2.3522, 51.5074, -0.1278)
	assert.InDelta(t, 343500, d, 3000)
}

func TestPathLength(t *testing.T) {
	points := []Point{{Lat: 0, Lon: 0}, {Lat: 0.5, Lon: 0}, {Lat: 1, Lon: 0}}
	assert.InDelta(t, 111195, PathLength(points), 10)

	assert.Zero(t, PathLength(points[:1]))
	assert.Zero(t, PathLength(nil))
}

func TestRingAreaM2(t *testing.T) {
	// 0.01° square at the equator, roughly 1.11 km on a side
	ring := square(0, 0, 0.01)
	area := RingAreaM2(ring)
	assert.InDelta(t, 1.236e6, area, 1.3e4)
}

func TestRingAreaM2WindingInsensitive(t *testing.T) {
	ring := square(0, 0, 0.01)
	reversed := make([]Point, len(ring))
	for i, p := range ring {
		reversed[len(ring)-1-i] = p
	}

	a := RingAreaM2(ring)
	b := RingAreaM2(reversed)
	assert.InDelta(t, a, b, a*0.001)
}

func TestRingAreaM2Degenerate(t *testing.T) {
	assert.Zero(t, RingAreaM2([]Point{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}))
}
