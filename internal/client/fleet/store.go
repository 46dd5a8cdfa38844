// Package fleet maintains the authoritative in-memory set of tracked assets
// for the current session and keeps their positions fresh, either from the
// backend's live location feed or, in demo mode, by simulated movement.
package fleet

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trackkar/trackkar-cli/internal/client/api"
	"github.com/trackkar/trackkar-cli/internal/client/models"
	"github.com/trackkar/trackkar-cli/internal/logging"
)

// ErrAssetNotFound is returned when an identifier matches no stored asset.
var ErrAssetNotFound = errors.New("asset not found")

// Store owns the asset list. The selection is tracked by identifier, not by
// object reference, so replacing a record during update keeps the selection
// pointing at the same asset.
//
// Unlike the browser original, which ran on a single UI thread, the store
// is touched by both the command loop and the polling goroutine, so all
// state lives behind a mutex. Last-write-wins between the poller and a
// user-triggered refresh on the coordinate fields is accepted.
type Store struct {
	client api.Client
	log    logging.Logger
	demo   bool

	mu       sync.RWMutex
	assets   []models.Asset
	selected string
	lastErr  error

	now func() time.Time
}

// NewStore builds a store. With demo enabled, the background refresh
// perturbs coordinates locally instead of calling the location endpoint.
func NewStore(client api.Client, log logging.Logger, demo bool) *Store {
	return &Store{
		client: client,
		log:    log,
		demo:   demo,
		now:    time.Now,
	}
}

// normalize enforces the "an asset always has a location" invariant:
// records the backend reports without a coordinate get the default one
// with a fresh timestamp.
func (s *Store) normalize(a models.Asset) models.Asset {
	if !a.HasLocation() {
		a.Location = models.DefaultLocation(s.now())
	}
	return a
}

// FetchAll replaces the asset list with the backend's view. On failure the
// list is left as it was (a failed fetch is "unknown", not "empty") and the
// error is both recorded for the UI and returned.
// The first asset becomes the selection when nothing is selected yet.
func (s *Store) FetchAll(ctx context.Context) error {
	fetched, err := s.client.ListAssets(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	normalized := make([]models.Asset, len(fetched))
	for i, a := range fetched {
		normalized[i] = s.normalize(a)
	}

	s.mu.Lock()
	s.assets = normalized
	s.lastErr = nil
	if s.selected == "" && len(normalized) > 0 {
		s.selected = normalized[0].ID
	}
	s.mu.Unlock()
	return nil
}

// Assets returns a copy of the current list.
func (s *Store) Assets() []models.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Asset, len(s.assets))
	copy(out, s.assets)
	return out
}

// Err returns the error recorded by the last failed fetch, or nil.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Selected returns the currently selected asset, if any.
func (s *Store) Selected() (models.Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(s.selected)
}

func (s *Store) findLocked(id string) (models.Asset, bool) {
	for _, a := range s.assets {
		if a.ID == id {
			return a, true
		}
	}
	return models.Asset{}, false
}

// Select makes the asset with the given identifier current.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findLocked(id); !ok {
		return ErrAssetNotFound
	}
	s.selected = id
	return nil
}

// Add creates an asset. A provisional record with a locally generated
// identifier and the default coordinate is appended immediately so the new
// asset shows up before the round trip completes; the server's canonical
// response then replaces it wholly. On failure the provisional record is
// removed again, leaving the list as it was, and the error propagates for
// display. The new asset becomes the selection.
func (s *Store) Add(ctx context.Context, req models.CreateAssetRequest) (models.Asset, error) {
	provisional := models.Asset{
		ID:       uuid.NewString(),
		Name:     req.Name,
		AssetID:  req.AssetID,
		GPSID:    req.GPSID,
		Category: req.Type,
		Status:   models.StatusInactive,
		Location: models.DefaultLocation(s.now()),
	}

	s.mu.Lock()
	s.assets = append(s.assets, provisional)
	s.mu.Unlock()

	created, err := s.client.CreateAsset(ctx, req)
	if err != nil {
		s.removeLocal(provisional.ID)
		return models.Asset{}, err
	}

	canonical := s.normalize(*created)
	s.log.Debug(ctx, "asset created", "provisional", provisional.ID, "canonical", canonical.ID)

	s.mu.Lock()
	replaced := false
	for i, a := range s.assets {
		if a.ID == provisional.ID {
			s.assets[i] = canonical
			replaced = true
			break
		}
	}
	if !replaced {
		s.assets = append(s.assets, canonical)
	}
	s.selected = canonical.ID
	s.mu.Unlock()
	return canonical, nil
}

// removeLocal drops a record from the list without a backend call. Used to
// roll back a provisional record after a failed create.
func (s *Store) removeLocal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.assets {
		if a.ID == id {
			s.assets = append(s.assets[:i], s.assets[i+1:]...)
			return
		}
	}
}

// Update sends a partial mutation and replaces the matching record with the
// server's returned object. A PATCH response that omits the location keeps
// the record's previous coordinate: positions are owned by the location
// feed, not by edits.
func (s *Store) Update(ctx context.Context, id string, req models.UpdateAssetRequest) (models.Asset, error) {
	updated, err := s.client.UpdateAsset(ctx, id, req)
	if err != nil {
		return models.Asset{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.assets {
		if a.ID != id {
			continue
		}
		replacement := *updated
		if !replacement.HasLocation() {
			replacement.Location = a.Location
		}
		s.assets[i] = replacement
		return replacement, nil
	}
	return models.Asset{}, ErrAssetNotFound
}

// Delete removes exactly the record with the given identifier, preserving
// the order of the rest. The selection is cleared only when the deleted
// asset was the selected one; deleting any other asset leaves it alone.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteAsset(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.assets {
		if a.ID != id {
			continue
		}
		s.assets = append(s.assets[:i], s.assets[i+1:]...)
		if s.selected == id {
			s.selected = ""
		}
		return nil
	}
	return ErrAssetNotFound
}

// ApplyPosition routes a fix keyed by tracker identifier (as the live
// position stream delivers them) to the matching asset. Unknown trackers
// are ignored.
func (s *Store) ApplyPosition(gpsID string, loc models.Location) {
	s.mu.RLock()
	var id string
	for _, a := range s.assets {
		if a.GPSID == gpsID {
			id = a.ID
			break
		}
	}
	s.mu.RUnlock()

	if id != "" {
		s.SetLocation(id, loc)
	}
}

// SetLocation updates one asset's position. Assets that somehow lack a
// prior location are left untouched rather than erroring; the feed will
// carry a usable fix eventually.
func (s *Store) SetLocation(id string, loc models.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.assets {
		if a.ID != id {
			continue
		}
		if !a.HasLocation() {
			return
		}
		if loc.Timestamp == "" {
			loc.Timestamp = s.now().UTC().Format(time.RFC3339)
		}
		s.assets[i].Location = loc
		return
	}
}
