package grid

import (
	"fmt"
	"math"

	"github.com/theophile-senechal/unlock-app/internal/spatial"
)

// MetersPerDegree is the constant-latitude approximation used to derive the
// angular grid spacing from a cell size in meters.
const MetersPerDegree = 111320.0

// Cell identifies a grid cell by its quantized (lat, lon) center, rounded to
// 6 decimal places. Two cells are the same cell iff both coordinates are
// bit-identical after rounding; the whole conquest model depends on this.
type Cell struct {
	Lat float64
	Lon float64
}

// Spacing converts a caller-chosen cell size in meters to degrees
func Spacing(gridMeters int) float64 {
	return float64(gridMeters) / MetersPerDegree
}

// Quantize snaps a coordinate to the center of its grid cell.
// Quantizing an already-quantized point returns the same point.
func Quantize(lat, lon, spacing float64) Cell {
	return Cell{
		Lat: round6(math.Round(lat/spacing) * spacing),
		Lon: round6(math.Round(lon/spacing) * spacing),
	}
}

// CellsForTrack returns the set of unique cells touched by an ordered polyline.
//
// GPS samples can be sparse relative to a small grid size: a straight segment
// longer than the spacing would register only its endpoint cells. Segments
// longer than 0.7 spacings are densified with floor(dist/(0.5*spacing))
// interpolated points so no cell along the path is skipped. The thresholds bias
// toward over-inclusion, which is harmless since the result is a set.
//
// Malformed coordinates are a caller contract violation and fail the whole
// track; silently skipping points would corrupt the territory model.
func CellsForTrack(points []spatial.Point, spacing float64) (map[Cell]struct{}, error) {
	cells := make(map[Cell]struct{})
	if len(points) == 0 {
		return cells, nil
	}

	for i, p := range points {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
	}

	prev := points[0]
	cells[Quantize(prev.Lat, prev.Lon, spacing)] = struct{}{}

	for _, curr := range points[1:] {
		dLat := curr.Lat - prev.Lat
		dLon := curr.Lon - prev.Lon
		dist := math.Sqrt(dLat*dLat + dLon*dLon)

		if dist > spacing*0.7 {
			steps := int(dist / (spacing * 0.5))
			for j := 1; j <= steps; j++ {
				frac := float64(j) / float64(steps+1)
				cells[Quantize(prev.Lat+dLat*frac, prev.Lon+dLon*frac, spacing)] = struct{}{}
			}
		}

		cells[Quantize(curr.Lat, curr.Lon, spacing)] = struct{}{}
		prev = curr
	}

	return cells, nil
}

func validate(p spatial.Point) error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) {
		return fmt.Errorf("malformed coordinate (%v, %v)", p.Lat, p.Lon)
	}
	if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("coordinate out of range (%v, %v)", p.Lat, p.Lon)
	}
	return nil
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
