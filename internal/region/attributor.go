package region

import (
	"context"
	"log"
	"math"
	"sort"

	"github.com/theophile-senechal/unlock-app/internal/conquest"
	"github.com/theophile-senechal/unlock-app/internal/metrics"
	"github.com/theophile-senechal/unlock-app/internal/models"
	"github.com/theophile-senechal/unlock-app/internal/spatial"
)

// Store is the batch lookup capability the attributor needs from the spatial
// store: all administrative regions intersecting a set of points (SRID 4326).
type Store interface {
	FindIntersecting(ctx context.Context, points []spatial.Point) ([]models.Region, error)
}

const (
	// ProbeBatchSize is how many probe points go into one store lookup
	ProbeBatchSize = 50
	// MaxRegions caps how many distinct regions one request may pull from the
	// store, protecting it from unbounded query cost as the footprint grows.
	// Regions beyond the cap are not considered.
	MaxRegions = 70
)

// Attributor maps a visited-cell footprint onto administrative regions
type Attributor struct {
	store Store
}

// NewAttributor creates a new region attributor
func NewAttributor(store Store) *Attributor {
	return &Attributor{store: store}
}

// Result is the ranked region list plus whether the region cap cut it short
type Result struct {
	Regions   []models.RegionStats
	Truncated bool
}

// Probes reduces a cell store to coarse lookup points: cells rounded to
// 2 decimal places (~1.1 km) and deduplicated, most-visited first. This bounds
// store query volume independently of footprint size, at the cost of possibly
// missing a region whose only intersecting cells round to probes outside it.
func Probes(cells conquest.CellStore) []spatial.Point {
	weights := make(map[spatial.Point]int)
	for c, rec := range cells {
		p := spatial.Point{Lat: round2(c.Lat), Lon: round2(c.Lon)}
		weights[p] += rec.Count
	}

	probes := make([]spatial.Point, 0, len(weights))
	for p := range weights {
		probes = append(probes, p)
	}
	sort.Slice(probes, func(i, j int) bool {
		wi, wj := weights[probes[i]], weights[probes[j]]
		if wi != wj {
			return wi > wj
		}
		if probes[i].Lat != probes[j].Lat {
			return probes[i].Lat < probes[j].Lat
		}
		return probes[i].Lon < probes[j].Lon
	})

	return probes
}

// Attribute identifies every region touching the visited footprint and computes
// exact cell containment and area coverage for each. A failed batch or a region
// with bad geometry is skipped and logged; attribution always completes with
// whatever regions survived.
func (a *Attributor) Attribute(ctx context.Context, cells conquest.CellStore, gridMeters int) *Result {
	result := &Result{Regions: make([]models.RegionStats, 0)}
	if len(cells) == 0 {
		return result
	}

	probes := Probes(cells)
	candidates := make([]models.Region, 0)
	seen := make(map[string]struct{})

	for start := 0; start < len(probes); start += ProbeBatchSize {
		if len(seen) >= MaxRegions {
			result.Truncated = true
			break
		}

		end := start + ProbeBatchSize
		if end > len(probes) {
			end = len(probes)
		}

		metrics.RegionBatches.Inc()
		found, err := a.store.FindIntersecting(ctx, probes[start:end])
		if err != nil {
			metrics.RegionBatchFailures.Inc()
			log.Printf("[Attributor] Region batch %d-%d failed, skipping: %v", start, end, err)
			continue
		}

		for _, r := range found {
			if _, dup := seen[r.Name]; dup {
				continue
			}
			if len(seen) >= MaxRegions {
				result.Truncated = true
				break
			}
			seen[r.Name] = struct{}{}
			candidates = append(candidates, r)
		}
	}

	cellArea := float64(gridMeters) * float64(gridMeters)
	for _, r := range candidates {
		stats, ok := coverage(r, cells, cellArea)
		if ok {
			result.Regions = append(result.Regions, stats)
		}
	}

	sort.Slice(result.Regions, func(i, j int) bool {
		if result.Regions[i].Stats.Blocks != result.Regions[j].Stats.Blocks {
			return result.Regions[i].Stats.Blocks > result.Regions[j].Stats.Blocks
		}
		return result.Regions[i].Name < result.Regions[j].Name
	})

	return result
}

// coverage counts the visited cells strictly inside one region boundary and
// derives the covered area fraction. The bounding box is only a pre-filter;
// every surviving cell must pass the exact point-in-polygon test.
func coverage(r models.Region, cells conquest.CellStore, cellArea float64) (models.RegionStats, bool) {
	if len(r.Outline) < 3 {
		log.Printf("[Attributor] Region %q has a degenerate boundary, skipping", r.Name)
		return models.RegionStats{}, false
	}

	minLat, minLon, maxLat, maxLon := spatial.BoundingBox(r.Outline)

	inside := 0
	for c := range cells {
		if c.Lat < minLat || c.Lat > maxLat || c.Lon < minLon || c.Lon > maxLon {
			continue
		}
		if spatial.PointInPolygon(spatial.Point{Lat: c.Lat, Lon: c.Lon}, r.Outline) {
			inside++
		}
	}

	// Passed the coarse intersection test but no cell survives the exact one
	if inside == 0 {
		return models.RegionStats{}, false
	}

	areaM2 := r.AreaM2
	if areaM2 <= 0 {
		areaM2 = spatial.RingAreaM2(r.Outline)
	}
	if areaM2 <= 0 {
		log.Printf("[Attributor] Region %q has no usable area, skipping", r.Name)
		return models.RegionStats{}, false
	}

	// Grid-cell-area approximation can overshoot near boundaries; clamp
	pct := float64(inside) * cellArea / areaM2 * 100
	if pct > 100 {
		pct = 100
	}

	return models.RegionStats{
		Name:    r.Name,
		Outline: r.Outline,
		Stats: models.RegionCoverage{
			Blocks:  inside,
			Percent: round2(pct),
		},
	}, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
