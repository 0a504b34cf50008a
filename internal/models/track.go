package models

import (
	"time"

	"github.com/theophile-senechal/unlock-app/internal/spatial"
)

// TimeLayout is the activity provider's local start-date format (second precision)
const TimeLayout = "2006-01-02T15:04:05Z"

// Track is one GPS activity: an ordered point sequence with its sport category,
// local start timestamp and distance. Owned by the activity provider, read-only
// to the aggregation core.
type Track struct {
	Sport          string          `json:"type"`
	StartDateLocal string          `json:"start_date_local"`
	DistanceMeters float64         `json:"distance"`
	Points         []spatial.Point `json:"points"`
}

// StartTime parses the local start timestamp
func (t Track) StartTime() (time.Time, error) {
	return time.Parse(TimeLayout, t.StartDateLocal)
}
