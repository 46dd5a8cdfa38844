package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/trackkar/trackkar-cli/internal/client/api"
	"github.com/trackkar/trackkar-cli/internal/client/config"
	"github.com/trackkar/trackkar-cli/internal/client/fleet"
	"github.com/trackkar/trackkar-cli/internal/client/geo"
	"github.com/trackkar/trackkar-cli/internal/client/guard"
	"github.com/trackkar/trackkar-cli/internal/client/localstore"
	"github.com/trackkar/trackkar-cli/internal/client/mapview"
	"github.com/trackkar/trackkar-cli/internal/client/models"
	"github.com/trackkar/trackkar-cli/internal/client/session"
	"github.com/trackkar/trackkar-cli/internal/logging"
)

// ---- fakes ----

type appFakeClient struct {
	LoginRet *api.AuthResponse
	LoginErr error
}

func (f *appFakeClient) Signup(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	return f.LoginRet, f.LoginErr
}

func (f *appFakeClient) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	return f.LoginRet, f.LoginErr
}

func (f *appFakeClient) GetProfile(ctx context.Context) (*models.User, error) {
	return &models.User{ID: "u1", Email: "driver@example.com"}, nil
}

func (f *appFakeClient) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	return nil, nil
}

func (f *appFakeClient) ListAssets(ctx context.Context) ([]models.Asset, error) {
	return nil, nil
}

func (f *appFakeClient) GetAsset(ctx context.Context, gpsID string) (*models.Asset, error) {
	return nil, nil
}

func (f *appFakeClient) CreateAsset(ctx context.Context, req models.CreateAssetRequest) (*models.Asset, error) {
	return nil, nil
}

func (f *appFakeClient) UpdateAsset(ctx context.Context, id string, req models.UpdateAssetRequest) (*models.Asset, error) {
	return nil, nil
}

func (f *appFakeClient) DeleteAsset(ctx context.Context, id string) error { return nil }

func (f *appFakeClient) ValidateGPS(ctx context.Context, gpsID string) (*api.GPSValidation, error) {
	return nil, nil
}

func (f *appFakeClient) SubmitGPSApplication(ctx context.Context, app models.GPSApplication) error {
	return nil
}

func (f *appFakeClient) VerifyGPSDevice(ctx context.Context, gpsID, plateNumber string) (*api.GPSVerification, error) {
	return nil, nil
}

func (f *appFakeClient) GetLocation(ctx context.Context, vehicleID string) (*models.Location, error) {
	return nil, nil
}

func (f *appFakeClient) GetLocationHistory(ctx context.Context, vehicleID, start, end string) ([]models.HistoryDay, error) {
	return nil, nil
}

func (f *appFakeClient) Close() error { return nil }

type stubResolver struct{}

func (stubResolver) ReverseGeocode(ctx context.Context, p geo.Point) (string, error) {
	return "somewhere", nil
}

func (stubResolver) SearchPlace(ctx context.Context, query string) (geo.Point, string, error) {
	return geo.Point{}, "", geo.ErrNoResults
}

func newTestApp(t *testing.T, fc api.Client) *App {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`
CREATE TABLE client_state (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`)
	require.NoError(t, err)
	state := localstore.NewStore(db)

	log := logging.NewTextLogger(io.Discard, slog.LevelError)
	sessions := session.NewStore(fc, state, log)

	cfg := &config.Config{PollInterval: time.Hour}
	a := &App{
		config:   cfg,
		log:      log,
		client:   fc,
		sessions: sessions,
		fleet:    fleet.NewStore(fc, log, false),
		view:     mapview.New(stubResolver{}, log),
		routes:   guard.New(sessions),
		state:    state,
		reader:   bufio.NewReader(strings.NewReader("")),
		route:    "/",
	}
	t.Cleanup(a.leaveDashboard)
	return a
}

func loginPrompts(email, password string) func() {
	prevText, prevPassword := getSimpleText, getPassword
	getSimpleText = func(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
		return email, nil
	}
	getPassword = func(w io.Writer) (string, error) { return password, nil }
	return func() {
		getSimpleText = prevText
		getPassword = prevPassword
	}
}

func TestNavigate_BounceRemembersRequestedRoute(t *testing.T) {
	a := newTestApp(t, &appFakeClient{})

	landed := a.navigate("/profile")
	require.Equal(t, "/login", landed)
	require.Equal(t, "/profile", a.pendingRoute)
}

func TestResumeRoute_ConsumedOnce(t *testing.T) {
	a := newTestApp(t, &appFakeClient{})
	a.pendingRoute = "/gps-verify"

	require.Equal(t, "/gps-verify", a.resumeRoute())
	require.Equal(t, "/dashboard", a.resumeRoute())
}

func TestLogin_ResumesBouncedRoute(t *testing.T) {
	fc := &appFakeClient{LoginRet: &api.AuthResponse{Token: "tok-1", UserID: "u1"}}
	a := newTestApp(t, fc)

	require.Equal(t, "/login", a.navigate("/profile"))

	restore := loginPrompts("driver@example.com", "secret1")
	defer restore()

	require.NoError(t, a.Login(context.Background()))
	require.Equal(t, "/profile", a.route)
	require.Empty(t, a.pendingRoute)
}

func TestLogin_NoBounce_LandsOnDashboard(t *testing.T) {
	fc := &appFakeClient{LoginRet: &api.AuthResponse{Token: "tok-1", UserID: "u1"}}
	a := newTestApp(t, fc)

	restore := loginPrompts("driver@example.com", "secret1")
	defer restore()

	require.NoError(t, a.Login(context.Background()))
	require.Equal(t, "/dashboard", a.route)
}

func TestLogout_DropsPendingRoute(t *testing.T) {
	fc := &appFakeClient{LoginRet: &api.AuthResponse{Token: "tok-1", UserID: "u1"}}
	a := newTestApp(t, fc)

	require.Equal(t, "/login", a.navigate("/dashboard"))
	require.Equal(t, "/dashboard", a.pendingRoute)

	require.NoError(t, a.Logout(context.Background()))
	require.Empty(t, a.pendingRoute)
}
