// Package cli implements the interactive terminal frontend of the tracking
// dashboard: a REPL over the session store, the fleet store, and the map
// view, gated by the route guard.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/trackkar/trackkar-cli/internal/client/api"
	"github.com/trackkar/trackkar-cli/internal/client/config"
	"github.com/trackkar/trackkar-cli/internal/client/fleet"
	"github.com/trackkar/trackkar-cli/internal/client/geo"
	"github.com/trackkar/trackkar-cli/internal/client/guard"
	"github.com/trackkar/trackkar-cli/internal/client/live"
	"github.com/trackkar/trackkar-cli/internal/client/localstore"
	"github.com/trackkar/trackkar-cli/internal/client/mapview"
	"github.com/trackkar/trackkar-cli/internal/client/session"
	"github.com/trackkar/trackkar-cli/internal/logging"
)

// viewRefreshInterval is how often the map view resyncs against the
// selected asset while on the dashboard.
const viewRefreshInterval = 5 * time.Second

// App wires the client components together and carries the REPL state:
// the current route and the disposal handles of the background tasks.
type App struct {
	config   *config.Config
	log      logging.Logger
	client   api.Client
	sessions *session.Store
	fleet    *fleet.Store
	view     *mapview.View
	routes   *guard.Guard
	state    *localstore.Store
	reader   *bufio.Reader

	route        string
	pendingRoute string
	stopPoll     func()
	stopFollow   func()
	stopLive     context.CancelFunc
}

// NewApp builds the full client: local state database, REST client,
// session store (restored from the persisted token), fleet store, geocoder,
// map view, and route guard.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, parseLevel(cfg.LogLevel))

	db, err := localstore.Open(ctx, cfg.StateDSN)
	if err != nil {
		return nil, fmt.Errorf("initializing local state: %w", err)
	}
	state := localstore.NewStore(db)

	client, err := api.NewRESTClient(cfg.APIBaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing api client: %w", err)
	}

	sessions := session.NewStore(client, state, log)
	client.SetTokenSource(sessions)
	sessions.Init(ctx)

	geocoder := geo.NewGeocoder(cfg.GeocoderURL)

	app := &App{
		config:   cfg,
		log:      log,
		client:   client,
		sessions: sessions,
		fleet:    fleet.NewStore(client, log, cfg.DemoMode),
		view:     mapview.New(geocoder, log),
		routes:   guard.New(sessions),
		state:    state,
		reader:   bufio.NewReader(os.Stdin),
		route:    "/",
	}
	return app, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (a *App) isLoggedIn() bool {
	return a.sessions.IsAuthenticated()
}

// navigate runs the route guard for the target path and applies its
// decision. Returns the route actually landed on. When the guard bounces
// to login it carries the requested path in the "from" query parameter;
// that path is remembered so the next successful login can resume it.
func (a *App) navigate(path string) string {
	decision := a.routes.Check(path)
	if decision.Allow {
		a.route = path
		return path
	}

	target := decision.RedirectTo
	if i := strings.IndexByte(target, '?'); i >= 0 {
		if q, err := url.ParseQuery(target[i+1:]); err == nil {
			if from := q.Get("from"); from != "" {
				a.pendingRoute = from
			}
		}
		target = target[:i]
	}
	fmt.Printf("Redirected to %s\n", decision.RedirectTo)
	a.route = target
	return target
}

// resumeRoute consumes the path recorded by a login redirect, defaulting
// to the dashboard.
func (a *App) resumeRoute() string {
	target := "/dashboard"
	if a.pendingRoute != "" {
		target = a.pendingRoute
		a.pendingRoute = ""
	}
	return target
}

// enterDashboard loads the asset list and starts the background tasks.
// Called after a successful login or session restore.
func (a *App) enterDashboard(ctx context.Context) {
	if a.navigate("/dashboard") != "/dashboard" {
		return
	}

	if err := a.fleet.FetchAll(ctx); err != nil {
		fmt.Println("Could not load assets:", err)
	}

	if a.stopPoll == nil {
		a.stopPoll = a.fleet.StartPolling(ctx, a.config.PollInterval)
	}
	if a.stopFollow == nil {
		a.stopFollow = a.view.Follow(ctx, a.fleet, viewRefreshInterval)
	}
	if a.config.LiveFeedURL != "" && a.stopLive == nil {
		liveCtx, cancel := context.WithCancel(ctx)
		a.stopLive = cancel
		feed := live.New(a.config.LiveFeedURL, a.fleet, a.log)
		go feed.Run(liveCtx)
	}
}

// leaveDashboard cancels the background tasks. Disposal handles block
// until their goroutines have exited, so nothing mutates the stores after
// this returns.
func (a *App) leaveDashboard() {
	if a.stopPoll != nil {
		a.stopPoll()
		a.stopPoll = nil
	}
	if a.stopFollow != nil {
		a.stopFollow()
		a.stopFollow = nil
	}
	if a.stopLive != nil {
		a.stopLive()
		a.stopLive = nil
	}
}

// Run starts the REPL and blocks until exit.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	defer a.leaveDashboard()

	fmt.Println("Welcome to Track-kar (type 'help' for commands)")

	if a.isLoggedIn() {
		a.enterDashboard(ctx)
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

// status renders the prompt suffix: current user and route.
func (a *App) status() string {
	if user := a.sessions.User(); user != nil {
		return fmt.Sprintf("(%s %s)", user.Email, a.route)
	}
	return fmt.Sprintf("(%s)", a.route)
}
