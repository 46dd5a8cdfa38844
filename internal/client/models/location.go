package models

import "time"

// Default coordinate substituted for assets the backend reports without a
// location. Central London, same as the map's initial viewport.
const (
	DefaultLatitude  = 51.5074
	DefaultLongitude = -0.1278
)

// Location is a single position sample for an asset.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// DefaultLocation returns the fallback coordinate with a fresh timestamp.
func DefaultLocation(now time.Time) Location {
	return Location{
		Latitude:  DefaultLatitude,
		Longitude: DefaultLongitude,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// HistoryFix is one timestamped historical position for a given day.
// Time is the backend's wall-clock label ("HH:MM"); lookups match it
// exactly, without interpolation.
type HistoryFix struct {
	Time     string   `json:"time"`
	Location Location `json:"location"`
	Address  string   `json:"address,omitempty"`
}

// HistoryDay groups the fixes recorded on a single calendar date
// (formatted YYYY-MM-DD).
type HistoryDay struct {
	Date      string       `json:"date"`
	Locations []HistoryFix `json:"locations"`
}
