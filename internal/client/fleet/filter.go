package fleet

import "github.com/trackkar/trackkar-cli/internal/client/models"

// StatusFilter narrows the list view by asset status.
type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterActive   StatusFilter = "active"
	FilterInactive StatusFilter = "inactive"
)

// Filtered is a pure projection of the current list: assets whose name,
// GPS ID, or category matches the query (case-insensitive, empty query
// matches all) and whose status passes the filter. The underlying list is
// never mutated; two calls with the same inputs over an unchanged list
// yield equal results.
func (s *Store) Filtered(query string, status StatusFilter) []models.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		if !a.MatchesQuery(query) {
			continue
		}
		if status != FilterAll && string(a.Status) != string(status) {
			continue
		}
		out = append(out, a)
	}
	return out
}
