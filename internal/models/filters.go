package models

// TerritoryFilter represents the query parameters shared by the territory endpoints
type TerritoryFilter struct {
	GridSize  int    `form:"grid_size"`  // cell size in meters
	Year      string `form:"year"`       // "all" or "YYYY"
	SportType string `form:"sport_type"` // "all" or a provider sport code
}

// Normalize applies the endpoint defaults
func (f *TerritoryFilter) Normalize() {
	if f.GridSize <= 0 {
		f.GridSize = 100
	}
	if f.Year == "" {
		f.Year = "all"
	}
	if f.SportType == "" {
		f.SportType = "all"
	}
}

// Matches reports whether a track with the given year and sport passes the filter
func (f TerritoryFilter) Matches(year, sport string) bool {
	if f.Year != "all" && f.Year != year {
		return false
	}
	if f.SportType != "all" && f.SportType != sport {
		return false
	}
	return true
}
