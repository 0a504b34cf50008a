package service

import (
	"context"
	"encoding/json"
	"log"
	"sort"

	"github.com/theophile-senechal/unlock-app/internal/cache"
	"github.com/theophile-senechal/unlock-app/internal/conquest"
	"github.com/theophile-senechal/unlock-app/internal/grid"
	"github.com/theophile-senechal/unlock-app/internal/metrics"
	"github.com/theophile-senechal/unlock-app/internal/models"
	"github.com/theophile-senechal/unlock-app/internal/region"
	"github.com/theophile-senechal/unlock-app/internal/strava"
)

// TrackSource fetches a user's activity history. The boolean reports whether
// the upstream pagination cap truncated the history.
type TrackSource interface {
	FetchActivities(ctx context.Context, token string) ([]models.Track, bool)
}

// TerritoryService runs the full pipeline per request: fetch tracks, quantize,
// aggregate, attribute regions, shape the payload. One run is synchronous and
// request-scoped; the result cache is the only cross-request state.
type TerritoryService struct {
	source  TrackSource
	regions *region.Attributor // nil when no spatial store is configured
	cache   cache.Store
}

// NewTerritoryService creates the pipeline orchestrator
func NewTerritoryService(source TrackSource, attributor *region.Attributor, store cache.Store) *TerritoryService {
	return &TerritoryService{source: source, regions: attributor, cache: store}
}

// History builds the monthly conquest series for the stats view
func (s *TerritoryService) History(ctx context.Context, identity, token string, filter models.TerritoryFilter) (*models.HistoryResult, error) {
	key := cache.Key{Identity: identity, View: "stats", GridSize: filter.GridSize, Year: filter.Year, Sport: filter.SportType}

	var cached models.HistoryResult
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	tracks, truncated := s.fetchTracks(ctx, identity, token)

	result := conquest.AggregateHistory(tracks, grid.Spacing(filter.GridSize), filter)
	result.Truncated = truncated

	s.writeCache(ctx, key, result)
	return result, nil
}

// Activities builds the full territory payload for the map view. Region
// attribution is skipped entirely when no cell was visited or no spatial
// store is configured.
func (s *TerritoryService) Activities(ctx context.Context, identity, token string, filter models.TerritoryFilter) (*models.ActivityResult, error) {
	key := cache.Key{Identity: identity, View: "activities", GridSize: filter.GridSize, Year: filter.Year, Sport: filter.SportType}

	var cached models.ActivityResult
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	tracks, truncated := s.fetchTracks(ctx, identity, token)
	spacing := grid.Spacing(filter.GridSize)

	agg := conquest.AggregateActivities(tracks, spacing, filter)

	result := &models.ActivityResult{
		Coords:            agg.Coords,
		GridCells:         agg.Cells.Summaries(),
		GridSizeUsed:      spacing,
		AvailableYears:    agg.Years,
		AvailableSports:   sportOptions(agg.Sports),
		TopMunicipalities: make([]models.RegionStats, 0),
		Stats:             agg.Stats,
		SkippedTracks:     agg.Skipped,
		Truncated:         truncated,
	}

	if len(agg.Cells) > 0 && s.regions != nil {
		attributed := s.regions.Attribute(ctx, agg.Cells, filter.GridSize)
		result.TopMunicipalities = attributed.Regions
		result.RegionsTruncated = attributed.Truncated
	}

	s.writeCache(ctx, key, result)
	return result, nil
}

// Logout drops everything cached for an identity
func (s *TerritoryService) Logout(ctx context.Context, identity string) error {
	return s.cache.Invalidate(ctx, identity)
}

type trackEnvelope struct {
	Tracks    []models.Track `json:"tracks"`
	Truncated bool           `json:"truncated"`
}

// fetchTracks loads the raw history once per identity and shares it between
// both views through the cache.
func (s *TerritoryService) fetchTracks(ctx context.Context, identity, token string) ([]models.Track, bool) {
	key := cache.Key{Identity: identity, View: "tracks"}

	var env trackEnvelope
	if s.readCache(ctx, key, &env) {
		return env.Tracks, env.Truncated
	}

	env.Tracks, env.Truncated = s.source.FetchActivities(ctx, token)
	s.writeCache(ctx, key, &env)
	return env.Tracks, env.Truncated
}

func (s *TerritoryService) readCache(ctx context.Context, key cache.Key, out any) bool {
	payload, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Printf("[TerritoryService] Cache read failed for %s: %v", key.Field(), err)
		return false
	}
	if !ok {
		metrics.CacheMisses.WithLabelValues(key.View).Inc()
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		log.Printf("[TerritoryService] Dropping undecodable cache entry %s: %v", key.Field(), err)
		return false
	}
	metrics.CacheHits.WithLabelValues(key.View).Inc()
	return true
}

func (s *TerritoryService) writeCache(ctx context.Context, key cache.Key, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("[TerritoryService] Failed to marshal cache entry %s: %v", key.Field(), err)
		return
	}
	if err := s.cache.Set(ctx, key, payload); err != nil {
		log.Printf("[TerritoryService] Cache write failed for %s: %v", key.Field(), err)
	}
}

// sportOptions shapes the sports facet, ordered by display label
func sportOptions(codes []string) []models.SportOption {
	options := make([]models.SportOption, 0, len(codes))
	for _, code := range codes {
		options = append(options, models.SportOption{Code: code, Label: strava.SportLabel(code)})
	}
	sort.Slice(options, func(i, j int) bool {
		return options[i].Label < options[j].Label
	})
	return options
}
