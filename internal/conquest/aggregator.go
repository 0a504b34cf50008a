package conquest

import (
	"log"
	"sort"
	"time"

	"github.com/theophile-senechal/unlock-app/internal/grid"
	"github.com/theophile-senechal/unlock-app/internal/models"
	"github.com/theophile-senechal/unlock-app/internal/spatial"
)

// CellRecord is the per-cell aggregate state: how often the cell was visited
// and the first/last "YYYY-MM" period it was seen. Created on first observation,
// widened on every later one, never deleted within a run.
type CellRecord struct {
	Count int
	First string
	Last  string
}

// CellStore maps every visited cell to its record
type CellStore map[grid.Cell]*CellRecord

// ActivityAggregate is the full unfiltered-facet, filtered-count territory state
// consumed by the map view and the region attributor.
type ActivityAggregate struct {
	Cells   CellStore
	Coords  [][]spatial.Point
	Stats   models.ActivityStats
	Years   []string // all years observed, filter-independent, descending
	Sports  []string // all sport codes observed, filter-independent, ascending
	Skipped int      // tracks rejected for bad timestamps or malformed points
}

type scannedTrack struct {
	track models.Track
	start time.Time
	year  string
	month string
}

// scan parses timestamps and drops tracks the rest of the pipeline cannot
// place in time. A bad timestamp rejects that track only, never the run.
func scan(tracks []models.Track) ([]scannedTrack, int) {
	scanned := make([]scannedTrack, 0, len(tracks))
	skipped := 0

	for _, t := range tracks {
		start, err := t.StartTime()
		if err != nil {
			log.Printf("[Aggregator] Skipping track with unparseable timestamp %q: %v", t.StartDateLocal, err)
			skipped++
			continue
		}
		scanned = append(scanned, scannedTrack{
			track: t,
			start: start,
			year:  start.Format("2006"),
			month: start.Format("2006-01"),
		})
	}

	return scanned, skipped
}

// AggregateHistory scans tracks in ascending time order and builds the monthly
// new/routine series with a running cumulative conquest total.
//
// When a year or sport filter is active, only matching tracks are scanned, so
// "new" means first occurrence among tracks matching the filter. Filtered and
// unfiltered views can therefore disagree about when a cell was first visited;
// that divergence is intended behavior, not a bug.
func AggregateHistory(tracks []models.Track, spacing float64, filter models.TerritoryFilter) *models.HistoryResult {
	scanned, skipped := scan(tracks)

	// Stable sort keeps original order on timestamp ties, which makes
	// first-seen attribution reproducible.
	sort.SliceStable(scanned, func(i, j int) bool {
		return scanned[i].start.Before(scanned[j].start)
	})

	type bucket struct {
		newCells int
		routine  int
	}
	monthly := make(map[string]*bucket)
	globalSeen := make(map[grid.Cell]struct{})
	years := make(map[string]struct{})
	sports := make(map[string]struct{})
	totalBlocks := 0

	for _, st := range scanned {
		years[st.year] = struct{}{}
		sports[st.track.Sport] = struct{}{}

		if !filter.Matches(st.year, st.track.Sport) {
			continue
		}

		b, ok := monthly[st.month]
		if !ok {
			b = &bucket{}
			monthly[st.month] = b
		}

		cells, err := grid.CellsForTrack(st.track.Points, spacing)
		if err != nil {
			log.Printf("[Aggregator] Skipping track %s: %v", st.track.StartDateLocal, err)
			skipped++
			continue
		}

		for c := range cells {
			if _, seen := globalSeen[c]; !seen {
				globalSeen[c] = struct{}{}
				b.newCells++
				totalBlocks++
			} else {
				b.routine++
			}
		}
	}

	labels := make([]string, 0, len(monthly))
	for m := range monthly {
		labels = append(labels, m)
	}
	sort.Strings(labels)

	result := &models.HistoryResult{
		Labels:          labels,
		Conquest:        make([]int, 0, len(labels)),
		Exploration:     make([]int, 0, len(labels)),
		Routine:         make([]int, 0, len(labels)),
		TotalBlocks:     totalBlocks,
		AvailableYears:  sortedDesc(years),
		AvailableSports: sortedAsc(sports),
		SkippedTracks:   skipped,
	}

	running := 0
	for _, m := range labels {
		running += monthly[m].newCells
		result.Conquest = append(result.Conquest, running)
		result.Exploration = append(result.Exploration, monthly[m].newCells)
		result.Routine = append(result.Routine, monthly[m].routine)
	}

	return result
}

// AggregateActivities builds the per-cell store for the map view. Cell counts
// increment once per track touching the cell and the first/last periods widen;
// the result does not depend on scan order.
func AggregateActivities(tracks []models.Track, spacing float64, filter models.TerritoryFilter) *ActivityAggregate {
	scanned, skipped := scan(tracks)

	agg := &ActivityAggregate{
		Cells:  make(CellStore),
		Coords: make([][]spatial.Point, 0),
	}
	years := make(map[string]struct{})
	sports := make(map[string]struct{})

	for _, st := range scanned {
		years[st.year] = struct{}{}
		sports[st.track.Sport] = struct{}{}

		if !filter.Matches(st.year, st.track.Sport) {
			continue
		}

		cells, err := grid.CellsForTrack(st.track.Points, spacing)
		if err != nil {
			log.Printf("[Aggregator] Skipping track %s: %v", st.track.StartDateLocal, err)
			skipped++
			continue
		}

		agg.Coords = append(agg.Coords, st.track.Points)

		for c := range cells {
			rec, ok := agg.Cells[c]
			if !ok {
				rec = &CellRecord{First: st.month, Last: st.month}
				agg.Cells[c] = rec
			}
			rec.Count++
			if st.month < rec.First {
				rec.First = st.month
			}
			if st.month > rec.Last {
				rec.Last = st.month
			}
		}

		km := st.track.DistanceMeters / 1000
		if st.track.DistanceMeters <= 0 {
			km = spatial.PathLength(st.track.Points) / 1000
		}
		agg.Stats.TotalDistanceKm += km
		agg.Stats.ActivityCount++
	}

	agg.Stats.CellsConquered = len(agg.Cells)
	agg.Years = sortedDesc(years)
	agg.Sports = sortedAsc(sports)
	agg.Skipped = skipped

	return agg
}

// Summaries flattens the cell store for the API payload
func (s CellStore) Summaries() []models.CellSummary {
	out := make([]models.CellSummary, 0, len(s))
	for c, rec := range s {
		out = append(out, models.CellSummary{
			Lat:   c.Lat,
			Lon:   c.Lon,
			Count: rec.Count,
			First: rec.First,
			Last:  rec.Last,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Lat != out[j].Lat {
			return out[i].Lat < out[j].Lat
		}
		return out[i].Lon < out[j].Lon
	})
	return out
}

func sortedAsc(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func sortedDesc(set map[string]struct{}) []string {
	out := sortedAsc(set)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
