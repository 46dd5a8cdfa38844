package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/trackkar/trackkar-cli/internal/client/fleet"
	"github.com/trackkar/trackkar-cli/internal/client/models"
)

// requireDashboard gates asset commands behind the route guard.
func (a *App) requireDashboard(ctx context.Context) bool {
	return a.navigate("/dashboard") == "/dashboard"
}

func printAssets(assets []models.Asset, selectedID string) {
	if len(assets) == 0 {
		printlnFn("No assets.")
		return
	}
	for i, asset := range assets {
		marker := " "
		if asset.ID == selectedID {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%s %2d. %-20s %-10s %-8s gps:%s (%.4f, %.4f)",
			marker, i+1, asset.Name, asset.Category, asset.Status, asset.GPSID,
			asset.Location.Latitude, asset.Location.Longitude))
	}
}

// List prints all assets, marking the selection.
func (a *App) List(ctx context.Context) error {
	if !a.requireDashboard(ctx) {
		return nil
	}
	var selectedID string
	if sel, ok := a.fleet.Selected(); ok {
		selectedID = sel.ID
	}
	printAssets(a.fleet.Assets(), selectedID)
	if err := a.fleet.Err(); err != nil {
		printlnFn("Warning: last fetch failed:", err)
	}
	return nil
}

// Find filters the list: free-text query plus an optional trailing status
// token (all|active|inactive).
func (a *App) Find(ctx context.Context, args []string) error {
	if !a.requireDashboard(ctx) {
		return nil
	}

	status := fleet.FilterAll
	if n := len(args); n > 0 {
		switch fleet.StatusFilter(args[n-1]) {
		case fleet.FilterAll, fleet.FilterActive, fleet.FilterInactive:
			status = fleet.StatusFilter(args[n-1])
			args = args[:n-1]
		}
	}
	query := strings.Join(args, " ")

	printAssets(a.fleet.Filtered(query, status), "")
	return nil
}

// resolveAsset interprets arg as a 1-based list index or an asset ID.
func (a *App) resolveAsset(arg string) (models.Asset, bool) {
	assets := a.fleet.Assets()
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(assets) {
		return assets[n-1], true
	}
	for _, asset := range assets {
		if asset.ID == arg {
			return asset, true
		}
	}
	return models.Asset{}, false
}

// Select makes an asset current; the map view will resync to it.
func (a *App) Select(ctx context.Context, args []string) error {
	if !a.requireDashboard(ctx) {
		return nil
	}
	if len(args) == 0 {
		printlnFn("Usage: select <number|id>")
		return nil
	}
	asset, ok := a.resolveAsset(args[0])
	if !ok {
		return fleet.ErrAssetNotFound
	}
	if err := a.fleet.Select(asset.ID); err != nil {
		return err
	}
	a.view.SetAsset(ctx, asset)
	fmt.Println("Selected", asset.Name)
	return nil
}

// Add prompts for the asset fields, validates GPS ID against the backend,
// and creates the asset. The new asset becomes the selection.
func (a *App) Add(ctx context.Context) error {
	if !a.requireDashboard(ctx) {
		return nil
	}

	name, err := getSimpleText(a.reader, "Asset name", os.Stdout)
	if err != nil {
		return err
	}
	assetID, err := getSimpleText(a.reader, "Asset ID", os.Stdout)
	if err != nil {
		return err
	}
	gpsID, err := getSimpleText(a.reader, "GPS tracker ID", os.Stdout)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Category (equipment|machinery|package|sedan|suv|truck|bus)", os.Stdout)
	if err != nil {
		return err
	}
	if name == "" || assetID == "" || gpsID == "" || category == "" {
		return fmt.Errorf("all fields are required")
	}

	if validation, err := a.client.ValidateGPS(ctx, gpsID); err != nil {
		printlnFn("Warning: GPS validation unavailable:", err)
	} else if !validation.Valid {
		return fmt.Errorf("GPS ID rejected: %s", validation.Message)
	}

	asset, err := a.fleet.Add(ctx, models.CreateAssetRequest{
		Name:    name,
		AssetID: assetID,
		GPSID:   gpsID,
		Type:    models.AssetCategory(category),
	})
	if err != nil {
		return err
	}

	a.view.SetAsset(ctx, asset)
	fmt.Println("Added", asset.Name)
	return nil
}

// Edit prompts for new values (blank keeps the current one) and submits a
// partial update for the given asset.
func (a *App) Edit(ctx context.Context, args []string) error {
	if !a.requireDashboard(ctx) {
		return nil
	}
	if len(args) == 0 {
		printlnFn("Usage: edit <number|id>")
		return nil
	}
	asset, ok := a.resolveAsset(args[0])
	if !ok {
		return fleet.ErrAssetNotFound
	}

	var upd models.UpdateAssetRequest

	if v, err := GetOptionalText(a.reader, "Name", asset.Name, os.Stdout); err != nil {
		return err
	} else if v != asset.Name {
		upd.Name = &v
	}
	if v, err := GetOptionalText(a.reader, "Status", string(asset.Status), os.Stdout); err != nil {
		return err
	} else if v != string(asset.Status) {
		status := models.AssetStatus(v)
		upd.Status = &status
	}
	if v, err := GetOptionalText(a.reader, "Category", string(asset.Category), os.Stdout); err != nil {
		return err
	} else if v != string(asset.Category) {
		category := models.AssetCategory(v)
		upd.Type = &category
	}

	updated, err := a.fleet.Update(ctx, asset.ID, upd)
	if err != nil {
		return err
	}
	fmt.Println("Updated", updated.Name)
	return nil
}

// Delete removes an asset after an explicit confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	if !a.requireDashboard(ctx) {
		return nil
	}
	if len(args) == 0 {
		printlnFn("Usage: delete <number|id>")
		return nil
	}
	asset, ok := a.resolveAsset(args[0])
	if !ok {
		return fleet.ErrAssetNotFound
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete %q? (yes/no)", asset.Name), os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" && answer != "y" {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.fleet.Delete(ctx, asset.ID); err != nil {
		return err
	}
	fmt.Println("Deleted", asset.Name)
	return nil
}

// Refresh re-fetches the full asset list on demand.
func (a *App) Refresh(ctx context.Context) error {
	if !a.requireDashboard(ctx) {
		return nil
	}
	if err := a.fleet.FetchAll(ctx); err != nil {
		return err
	}
	fmt.Printf("Loaded %d assets.\n", len(a.fleet.Assets()))
	return nil
}

// Theme shows or sets the persisted theme preference.
func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		theme, err := a.state.Theme(ctx)
		if err != nil {
			return err
		}
		fmt.Println("Theme:", theme)
		return nil
	}
	if err := a.state.SetTheme(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("Theme set to", args[0])
	return nil
}
