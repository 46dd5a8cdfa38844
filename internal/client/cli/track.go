package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/trackkar/trackkar-cli/internal/client/geo"
	"github.com/trackkar/trackkar-cli/internal/client/mapview"
)

// Track prints the live view of the selected asset: position, heading and
// resolved address.
func (a *App) Track(ctx context.Context) error {
	if !a.requireDashboard(ctx) {
		return nil
	}

	snap := a.view.Snapshot()
	if !snap.HasAsset {
		printlnFn("No asset selected. Use: select <number|id>")
		return nil
	}

	state := "stationary"
	if snap.Moving {
		state = "moving " + snap.Heading
	}

	fmt.Printf("%s [%s]\n", snap.Asset.Name, snap.Asset.GPSID)
	fmt.Printf("  position: %.6f, %.6f (zoom %d)\n",
		snap.Viewport.Center.Lat, snap.Viewport.Center.Lon, snap.Viewport.Zoom)
	fmt.Printf("  state:    %s\n", state)
	fmt.Printf("  address:  %s\n", snap.Address)
	fmt.Printf("  trail:    %d points\n", len(snap.Path))
	return nil
}

// Goto pans the viewport to a searched place. The selected asset keeps
// its own position; only the viewport moves.
func (a *App) Goto(ctx context.Context, args []string) error {
	if !a.requireDashboard(ctx) {
		return nil
	}
	if len(args) == 0 {
		printlnFn("Usage: goto <place name>")
		return nil
	}

	name, err := a.view.SearchPlace(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Println("Viewing", name)
	return nil
}

// History looks up where the selected asset was on a given date and time.
// The time must match a recorded fix exactly.
func (a *App) History(ctx context.Context, args []string) error {
	if !a.requireDashboard(ctx) {
		return nil
	}
	if len(args) < 2 {
		printlnFn("Usage: history <YYYY-MM-DD> <HH:MM>")
		return nil
	}

	sel, ok := a.fleet.Selected()
	if !ok {
		printlnFn("No asset selected. Use: select <number|id>")
		return nil
	}

	days, err := a.client.GetLocationHistory(ctx, sel.ID, args[0], args[0])
	if err != nil {
		return err
	}

	fix, found := mapview.HistoryAt(days, args[0], args[1])
	if !found {
		printlnFn("No recorded position at that time.")
		return nil
	}

	a.view.PanTo(geo.Point{Lat: fix.Location.Latitude, Lon: fix.Location.Longitude}, mapview.SearchZoom)
	fmt.Printf("%s %s: %.6f, %.6f", args[0], fix.Time,
		fix.Location.Latitude, fix.Location.Longitude)
	if fix.Address != "" {
		fmt.Printf(" (%s)", fix.Address)
	}
	fmt.Println()
	return nil
}
