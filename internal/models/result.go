package models

import "github.com/theophile-senechal/unlock-app/internal/spatial"

// HistoryResult is the monthly conquest time series for the stats view
type HistoryResult struct {
	Labels          []string `json:"labels"`      // sorted "YYYY-MM" keys
	Conquest        []int    `json:"conquest"`    // running cumulative new-cell total
	Exploration     []int    `json:"exploration"` // new cells per month
	Routine         []int    `json:"routine"`     // revisited cells per month
	TotalBlocks     int      `json:"total_blocks"`
	AvailableYears  []string `json:"available_years"`
	AvailableSports []string `json:"available_sports"`
	SkippedTracks   int      `json:"skipped_tracks,omitempty"`
	Truncated       bool     `json:"truncated,omitempty"` // upstream pagination cap reached
}

// CellSummary is one visited grid cell with its visitation metadata
type CellSummary struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Count int     `json:"count"`
	First string  `json:"first"` // first-visited period "YYYY-MM"
	Last  string  `json:"last"`  // last-visited period "YYYY-MM"
}

// SportOption is a selectable sport facet with its display label
type SportOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// ActivityStats summarizes the filtered activity set
type ActivityStats struct {
	TotalDistanceKm float64 `json:"total_distance"`
	ActivityCount   int     `json:"activity_count"`
	CellsConquered  int     `json:"cells_conquered"`
}

// ActivityResult is the full territory payload for the map view
type ActivityResult struct {
	Coords            [][]spatial.Point `json:"coords"`
	GridCells         []CellSummary     `json:"grid_cells"`
	GridSizeUsed      float64           `json:"grid_size_used"` // spacing in degrees
	AvailableYears    []string          `json:"available_years"`
	AvailableSports   []SportOption     `json:"available_sports"`
	TopMunicipalities []RegionStats     `json:"top_municipalities"`
	Stats             ActivityStats     `json:"stats"`
	SkippedTracks     int               `json:"skipped_tracks,omitempty"`
	Truncated         bool              `json:"truncated,omitempty"`         // upstream pagination cap reached
	RegionsTruncated  bool              `json:"regions_truncated,omitempty"` // region cap reached before all probes were looked up
}
