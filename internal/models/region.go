package models

import "github.com/theophile-senechal/unlock-app/internal/spatial"

// Region is an administrative polygon fetched from the spatial store:
// a name, a geodesic area in m² and the outer boundary ring in (lat, lon) order.
type Region struct {
	Name    string          `json:"name"`
	AreaM2  float64         `json:"area_m2"`
	Outline []spatial.Point `json:"outline"`
}

// RegionCoverage holds the conquest figures for one region
type RegionCoverage struct {
	Blocks  int     `json:"blocks"`  // visited cells strictly inside the boundary
	Percent float64 `json:"percent"` // covered fraction of the region area, capped at 100
}

// RegionStats is one entry of the ranked region list
type RegionStats struct {
	Name    string          `json:"name"`
	Outline []spatial.Point `json:"outline"`
	Stats   RegionCoverage  `json:"stats"`
}
