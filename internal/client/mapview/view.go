// Package mapview holds the render state for the single-asset map: current
// marker, accumulated route path, derived heading, viewport, and the
// reverse-geocoded address label. It renders no pixels; the CLI (or any
// other frontend) reads its snapshots.
package mapview

import (
	"context"
	"sync"
	"time"

	"github.com/trackkar/trackkar-cli/internal/client/geo"
	"github.com/trackkar/trackkar-cli/internal/client/models"
	"github.com/trackkar/trackkar-cli/internal/logging"
)

const (
	// DefaultZoom is the initial viewport zoom.
	DefaultZoom = 13
	// SearchZoom is applied after a successful place search.
	SearchZoom = 15

	// AddressPlaceholder is shown until a geocode succeeds.
	AddressPlaceholder = "Loading location..."
)

// Resolver is the slice of the geocoder the view uses.
type Resolver interface {
	ReverseGeocode(ctx context.Context, p geo.Point) (string, error)
	SearchPlace(ctx context.Context, query string) (geo.Point, string, error)
}

// Viewport is the visible map window.
type Viewport struct {
	Center geo.Point
	Zoom   int
}

// View tracks one selected asset. It holds the asset by value snapshot;
// the fleet store remains the owner of the authoritative record.
type View struct {
	resolver Resolver
	log      logging.Logger

	mu       sync.Mutex
	asset    models.Asset
	hasAsset bool
	viewport Viewport
	path     []geo.Point
	heading  string
	moving   bool
	address  string
}

func New(resolver Resolver, log logging.Logger) *View {
	return &View{
		resolver: resolver,
		log:      log,
		viewport: Viewport{
			Center: geo.Point{Lat: models.DefaultLatitude, Lon: models.DefaultLongitude},
			Zoom:   DefaultZoom,
		},
		address: AddressPlaceholder,
	}
}

func locationPoint(loc models.Location) geo.Point {
	return geo.Point{Lat: loc.Latitude, Lon: loc.Longitude}
}

// SetAsset switches the view to a new selection: pan to its coordinate,
// drop the accumulated path, reset heading and movement state, refresh the
// address label.
func (v *View) SetAsset(ctx context.Context, a models.Asset) {
	p := locationPoint(a.Location)

	v.mu.Lock()
	v.asset = a
	v.hasAsset = true
	v.viewport.Center = p
	v.path = v.path[:0]
	v.heading = ""
	v.moving = false
	v.address = AddressPlaceholder
	v.mu.Unlock()

	v.refreshAddress(ctx, p)
}

// Advance feeds the next position sample for the tracked asset. The heading
// is recomputed from the previous coordinate; an unchanged coordinate marks
// the asset stationary and leaves the heading as it was.
func (v *View) Advance(ctx context.Context, loc models.Location) {
	v.mu.Lock()
	if !v.hasAsset {
		v.mu.Unlock()
		return
	}

	prev := locationPoint(v.asset.Location)
	next := locationPoint(loc)

	if next == prev {
		v.moving = false
		v.asset.Location = loc
		v.mu.Unlock()
		return
	}

	v.moving = true
	v.heading = geo.Cardinal(geo.Bearing(prev, next))
	v.path = append(v.path, next)
	v.asset.Location = loc
	v.viewport.Center = next
	v.mu.Unlock()

	v.refreshAddress(ctx, next)
}

// refreshAddress resolves the coordinate's address. Failures are swallowed:
// the label keeps its previous value (or the placeholder), never an error.
func (v *View) refreshAddress(ctx context.Context, p geo.Point) {
	if v.resolver == nil {
		return
	}
	addr, err := v.resolver.ReverseGeocode(ctx, p)
	if err != nil {
		v.log.Debug(ctx, "reverse geocode failed", "error", err)
		return
	}
	v.mu.Lock()
	v.address = addr
	v.mu.Unlock()
}

// SearchPlace pans and zooms the viewport to the best match for the query.
// It is a view-only navigation aid and never touches the asset's stored
// location.
func (v *View) SearchPlace(ctx context.Context, query string) (string, error) {
	p, name, err := v.resolver.SearchPlace(ctx, query)
	if err != nil {
		return "", err
	}

	v.mu.Lock()
	v.viewport.Center = p
	v.viewport.Zoom = SearchZoom
	v.mu.Unlock()
	return name, nil
}

// PanTo moves the viewport without side effects.
func (v *View) PanTo(p geo.Point, zoom int) {
	v.mu.Lock()
	v.viewport.Center = p
	v.viewport.Zoom = zoom
	v.mu.Unlock()
}

// HistoryAt finds the fix recorded on the given date at exactly the given
// time label. No interpolation: a time between two fixes matches nothing.
func HistoryAt(days []models.HistoryDay, date, timeLabel string) (models.HistoryFix, bool) {
	for _, d := range days {
		if d.Date != date {
			continue
		}
		for _, fix := range d.Locations {
			if fix.Time == timeLabel {
				return fix, true
			}
		}
	}
	return models.HistoryFix{}, false
}

// Snapshot is a consistent copy of the view state for rendering.
type Snapshot struct {
	Asset    models.Asset
	HasAsset bool
	Viewport Viewport
	Path     []geo.Point
	Heading  string
	Moving   bool
	Address  string
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	path := make([]geo.Point, len(v.path))
	copy(path, v.path)
	return Snapshot{
		Asset:    v.asset,
		HasAsset: v.hasAsset,
		Viewport: v.viewport,
		Path:     path,
		Heading:  v.heading,
		Moving:   v.moving,
		Address:  v.address,
	}
}

// AssetSource yields the currently selected asset; satisfied by the fleet
// store.
type AssetSource interface {
	Selected() (models.Asset, bool)
}

// Follow resynchronizes the view against the source's selection on a fixed
// cadence: a changed selection resets the view, a changed coordinate
// advances it. The returned stop handle must be called on teardown and
// blocks until the goroutine exits.
func (v *View) Follow(ctx context.Context, src AssetSource, interval time.Duration) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				v.sync(ctx, src)
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (v *View) sync(ctx context.Context, src AssetSource) {
	current, ok := src.Selected()
	if !ok {
		return
	}

	v.mu.Lock()
	sameAsset := v.hasAsset && v.asset.ID == current.ID
	v.mu.Unlock()

	if !sameAsset {
		v.SetAsset(ctx, current)
		return
	}
	v.Advance(ctx, current.Location)
}
