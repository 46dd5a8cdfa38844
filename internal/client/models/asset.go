// Package models defines the client-side data types for tracked assets,
// users, and location samples.
package models

import "strings"

// AssetCategory classifies a tracked asset.
type AssetCategory string

const (
	CategoryEquipment AssetCategory = "equipment"
	CategoryMachinery AssetCategory = "machinery"
	CategoryPackage   AssetCategory = "package"
	CategorySedan     AssetCategory = "sedan"
	CategorySUV       AssetCategory = "suv"
	CategoryTruck     AssetCategory = "truck"
	CategoryBus       AssetCategory = "bus"
)

// AssetStatus is the lifecycle state reported by the backend.
type AssetStatus string

const (
	StatusActive   AssetStatus = "active"
	StatusInactive AssetStatus = "inactive"
)

// Asset is a tracked physical item: a vehicle, a piece of equipment,
// machinery, or a package, correlated with a GPS tracker device.
//
// The server assigns the canonical ID on creation; client-constructed
// provisional records carry a locally generated one until the server's
// response replaces them wholly.
type Asset struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	AssetID  string        `json:"assetId"`
	GPSID    string        `json:"gpsId"`
	Category AssetCategory `json:"type"`
	Status   AssetStatus   `json:"status"`
	Location Location      `json:"location"`
}

// HasLocation reports whether a usable coordinate was supplied.
// A zero latitude and longitude pair is treated as absent: the backend
// omits the location field for assets whose tracker has never reported.
func (a *Asset) HasLocation() bool {
	return a.Location.Latitude != 0 || a.Location.Longitude != 0
}

// MatchesQuery reports whether the asset matches a free-text search query,
// case-insensitively, against its name, GPS ID, or category. An empty query
// matches everything.
func (a *Asset) MatchesQuery(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(a.Name), q) ||
		strings.Contains(strings.ToLower(a.GPSID), q) ||
		strings.Contains(strings.ToLower(string(a.Category)), q)
}

// CreateAssetRequest is the payload for asset creation.
type CreateAssetRequest struct {
	Name    string        `json:"name"`
	AssetID string        `json:"assetId,omitempty"`
	GPSID   string        `json:"gpsId"`
	Type    AssetCategory `json:"type"`
}

// UpdateAssetRequest carries a partial asset mutation. Nil fields are
// omitted from the PATCH body and left untouched by the server.
type UpdateAssetRequest struct {
	Name    *string        `json:"name,omitempty"`
	AssetID *string        `json:"assetId,omitempty"`
	GPSID   *string        `json:"gpsId,omitempty"`
	Type    *AssetCategory `json:"type,omitempty"`
	Status  *AssetStatus   `json:"status,omitempty"`
}
