package mapview

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trackkar/trackkar-cli/internal/client/geo"
	"github.com/trackkar/trackkar-cli/internal/client/models"
	"github.com/trackkar/trackkar-cli/internal/logging"
)

// ---- fake resolver ----

type fakeResolver struct {
	ReverseRet string
	ReverseErr error

	SearchPoint geo.Point
	SearchName  string
	SearchErr   error

	LastReversed geo.Point
	LastQuery    string
}

func (f *fakeResolver) ReverseGeocode(ctx context.Context, p geo.Point) (string, error) {
	f.LastReversed = p
	return f.ReverseRet, f.ReverseErr
}

func (f *fakeResolver) SearchPlace(ctx context.Context, query string) (geo.Point, string, error) {
	f.LastQuery = query
	return f.SearchPoint, f.SearchName, f.SearchErr
}

func testLogger() logging.Logger {
	return logging.NewTextLogger(io.Discard, slog.LevelError)
}

func trackedAsset(lat, lon float64) models.Asset {
	return models.Asset{
		ID: "a1", Name: "Van", GPSID: "GPS-1",
		Status:   models.StatusActive,
		Location: models.Location{Latitude: lat, Longitude: lon, Timestamp: "2026-08-30T10:00:00Z"},
	}
}

// ---- TESTS ----

func TestNew_DefaultViewport(t *testing.T) {
	v := New(&fakeResolver{}, testLogger())
	snap := v.Snapshot()
	require.False(t, snap.HasAsset)
	require.Equal(t, DefaultZoom, snap.Viewport.Zoom)
	require.Equal(t, models.DefaultLatitude, snap.Viewport.Center.Lat)
	require.Equal(t, models.DefaultLongitude, snap.Viewport.Center.Lon)
	require.Equal(t, AddressPlaceholder, snap.Address)
}

func TestSetAsset_PansAndResolvesAddress(t *testing.T) {
	fr := &fakeResolver{ReverseRet: "Baker Street, London"}
	v := New(fr, testLogger())

	v.SetAsset(context.Background(), trackedAsset(51.52, -0.15))

	snap := v.Snapshot()
	require.True(t, snap.HasAsset)
	require.Equal(t, 51.52, snap.Viewport.Center.Lat)
	require.Equal(t, "Baker Street, London", snap.Address)
	require.Equal(t, geo.Point{Lat: 51.52, Lon: -0.15}, fr.LastReversed)
}

func TestSetAsset_ResetsPathHeadingAndMovement(t *testing.T) {
	v := New(&fakeResolver{ReverseRet: "x"}, testLogger())
	v.SetAsset(context.Background(), trackedAsset(51.5, -0.1))
	v.Advance(context.Background(), models.Location{Latitude: 51.6, Longitude: -0.1})

	require.NotEmpty(t, v.Snapshot().Path)
	require.True(t, v.Snapshot().Moving)

	other := trackedAsset(48.85, 2.35)
	other.ID = "a2"
	v.SetAsset(context.Background(), other)

	snap := v.Snapshot()
	require.Empty(t, snap.Path)
	require.Empty(t, snap.Heading)
	require.False(t, snap.Moving)
}

func TestSetAsset_GeocodeFailure_KeepsPlaceholder(t *testing.T) {
	v := New(&fakeResolver{ReverseErr: errors.New("rate limited")}, testLogger())
	v.SetAsset(context.Background(), trackedAsset(51.5, -0.1))
	require.Equal(t, AddressPlaceholder, v.Snapshot().Address)
}

func TestAdvance_MovingNorth(t *testing.T) {
	v := New(&fakeResolver{ReverseRet: "x"}, testLogger())
	v.SetAsset(context.Background(), trackedAsset(51.5, -0.1))

	v.Advance(context.Background(), models.Location{Latitude: 51.6, Longitude: -0.1})

	snap := v.Snapshot()
	require.True(t, snap.Moving)
	require.Equal(t, "North", snap.Heading)
	require.Len(t, snap.Path, 1)
	require.Equal(t, 51.6, snap.Viewport.Center.Lat)
	require.Equal(t, 51.6, snap.Asset.Location.Latitude)
}

func TestAdvance_SameCoordinate_StationaryKeepsHeading(t *testing.T) {
	v := New(&fakeResolver{ReverseRet: "x"}, testLogger())
	v.SetAsset(context.Background(), trackedAsset(51.5, -0.1))
	v.Advance(context.Background(), models.Location{Latitude: 51.5, Longitude: 0.0})
	require.True(t, v.Snapshot().Moving)
	heading := v.Snapshot().Heading

	v.Advance(context.Background(), models.Location{Latitude: 51.5, Longitude: 0.0, Timestamp: "2026-08-30T10:05:00Z"})

	snap := v.Snapshot()
	require.False(t, snap.Moving)
	require.Equal(t, heading, snap.Heading)
	require.Len(t, snap.Path, 1)
	require.Equal(t, "2026-08-30T10:05:00Z", snap.Asset.Location.Timestamp)
}

func TestAdvance_NoAsset_NoOp(t *testing.T) {
	v := New(&fakeResolver{}, testLogger())
	v.Advance(context.Background(), models.Location{Latitude: 1, Longitude: 1})
	require.False(t, v.Snapshot().HasAsset)
	require.Empty(t, v.Snapshot().Path)
}

func TestSearchPlace_PansZoomsLeavesAssetAlone(t *testing.T) {
	fr := &fakeResolver{SearchPoint: geo.Point{Lat: 40.78, Lon: -73.97}, SearchName: "Central Park"}
	v := New(fr, testLogger())
	v.SetAsset(context.Background(), trackedAsset(51.5, -0.1))

	name, err := v.SearchPlace(context.Background(), "central park")
	require.NoError(t, err)
	require.Equal(t, "Central Park", name)
	require.Equal(t, "central park", fr.LastQuery)

	snap := v.Snapshot()
	require.Equal(t, 40.78, snap.Viewport.Center.Lat)
	require.Equal(t, SearchZoom, snap.Viewport.Zoom)
	require.Equal(t, 51.5, snap.Asset.Location.Latitude)
}

func TestSearchPlace_Error_ViewportUntouched(t *testing.T) {
	fr := &fakeResolver{SearchErr: errors.New("no results")}
	v := New(fr, testLogger())
	before := v.Snapshot().Viewport

	_, err := v.SearchPlace(context.Background(), "nowhere")
	require.Error(t, err)
	require.Equal(t, before, v.Snapshot().Viewport)
}

func TestHistoryAt_ExactMatch(t *testing.T) {
	days := []models.HistoryDay{
		{Date: "2026-08-29", Locations: []models.HistoryFix{
			{Time: "09:00", Location: models.Location{Latitude: 1, Longitude: 1}},
		}},
		{Date: "2026-08-30", Locations: []models.HistoryFix{
			{Time: "09:00", Location: models.Location{Latitude: 2, Longitude: 2}},
			{Time: "09:30", Location: models.Location{Latitude: 3, Longitude: 3}, Address: "Depot"},
		}},
	}

	fix, ok := HistoryAt(days, "2026-08-30", "09:30")
	require.True(t, ok)
	require.Equal(t, 3.0, fix.Location.Latitude)
	require.Equal(t, "Depot", fix.Address)
}

func TestHistoryAt_TimeBetweenFixes_NoMatch(t *testing.T) {
	days := []models.HistoryDay{
		{Date: "2026-08-30", Locations: []models.HistoryFix{
			{Time: "09:00"}, {Time: "09:30"},
		}},
	}
	_, ok := HistoryAt(days, "2026-08-30", "09:15")
	require.False(t, ok)
}

func TestHistoryAt_WrongDate_NoMatch(t *testing.T) {
	days := []models.HistoryDay{
		{Date: "2026-08-30", Locations: []models.HistoryFix{{Time: "09:00"}}},
	}
	_, ok := HistoryAt(days, "2026-08-29", "09:00")
	require.False(t, ok)
}

// ---- follow loop ----

type fakeSource struct {
	asset models.Asset
	ok    bool
}

func (f *fakeSource) Selected() (models.Asset, bool) { return f.asset, f.ok }

func TestFollow_PicksUpSelection(t *testing.T) {
	src := &fakeSource{asset: trackedAsset(51.5, -0.1), ok: true}
	v := New(&fakeResolver{ReverseRet: "x"}, testLogger())

	stop := v.Follow(context.Background(), src, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return v.Snapshot().HasAsset
	}, time.Second, time.Millisecond)
	stop()

	require.Equal(t, "a1", v.Snapshot().Asset.ID)
}

func TestFollow_StopHaltsResync(t *testing.T) {
	src := &fakeSource{}
	v := New(&fakeResolver{}, testLogger())

	stop := v.Follow(context.Background(), src, time.Millisecond)
	stop()

	src.asset = trackedAsset(1, 1)
	src.ok = true
	time.Sleep(20 * time.Millisecond)
	require.False(t, v.Snapshot().HasAsset)
}

func TestSync_ChangedCoordinateAdvances(t *testing.T) {
	src := &fakeSource{asset: trackedAsset(51.5, -0.1), ok: true}
	v := New(&fakeResolver{ReverseRet: "x"}, testLogger())

	v.sync(context.Background(), src)
	require.True(t, v.Snapshot().HasAsset)

	src.asset.Location = models.Location{Latitude: 51.6, Longitude: -0.1}
	v.sync(context.Background(), src)

	snap := v.Snapshot()
	require.True(t, snap.Moving)
	require.Equal(t, "North", snap.Heading)
}
