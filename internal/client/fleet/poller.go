package fleet

import (
	"context"
	"math/rand"
	"time"

	"github.com/trackkar/trackkar-cli/internal/client/models"
)

// demoMovement is the simulated per-tick drift in degrees (~100 meters),
// applied only in demo mode.
const demoMovement = 0.001

// StartPolling launches the background position refresh and returns its
// disposal handle. The owner must call stop on teardown; stop blocks until
// the polling goroutine has exited, so no state is touched after disposal.
func (s *Store) StartPolling(ctx context.Context, interval time.Duration) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.refreshLocations(ctx)
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

// refreshLocations re-requests each asset's live position, or perturbs the
// stored coordinate in demo mode. Per-asset failures are logged and
// skipped; a tick never fails as a whole.
func (s *Store) refreshLocations(ctx context.Context) {
	for _, a := range s.Assets() {
		if !a.HasLocation() {
			continue
		}

		if s.demo {
			s.SetLocation(a.ID, perturb(a.Location, s.now()))
			continue
		}

		loc, err := s.client.GetLocation(ctx, a.ID)
		if err != nil {
			s.log.Debug(ctx, "location refresh failed", "asset", a.ID, "error", err)
			continue
		}
		if loc.Latitude == 0 && loc.Longitude == 0 {
			continue
		}
		s.SetLocation(a.ID, *loc)
	}
}

// perturb nudges a coordinate by up to half the demo movement in each axis.
func perturb(loc models.Location, now time.Time) models.Location {
	return models.Location{
		Latitude:  loc.Latitude + (rand.Float64()-0.5)*demoMovement,
		Longitude: loc.Longitude + (rand.Float64()-0.5)*demoMovement,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}
