// Package guard gates view navigation on session presence. It is a routing
// convenience, not a security boundary: the backend authorizes every API
// call on its own.
package guard

import (
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Routes requiring a session, and routes requiring its absence. Protected
// routes match by prefix, auth routes exactly (plus the landing page).
var (
	protectedRoutes = []string{"/dashboard", "/get-gps", "/gps-verify", "/profile"}
	authRoutes      = []string{"/login", "/signup"}
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

// SessionMarker exposes the lightweight session signal the guard checks.
// Satisfied by the session store.
type SessionMarker interface {
	Token() string
}

// Decision is the outcome of a navigation check.
type Decision struct {
	Allow      bool
	RedirectTo string
}

type Guard struct {
	sessions SessionMarker
	now      func() time.Time
}

func New(sessions SessionMarker) *Guard {
	return &Guard{sessions: sessions, now: time.Now}
}

// hasSession checks token presence, plus an unverified expiry peek when the
// token happens to be a JWT. No signature validation: an expired token is
// simply not worth redirecting the user into a dashboard that will 401.
func (g *Guard) hasSession() bool {
	token := g.sessions.Token()
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque token: presence is the marker.
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return g.now().Before(exp.Time)
}

func isProtected(path string) bool {
	for _, route := range protectedRoutes {
		if strings.HasPrefix(path, route) {
			return true
		}
	}
	return false
}

func isAuthRoute(path string) bool {
	if path == "/" {
		return true
	}
	for _, route := range authRoutes {
		if path == route {
			return true
		}
	}
	return false
}

// Check classifies a navigation target.
//
//   - Protected path without a session redirects to login, carrying the
//     requested path in the "from" query parameter for the post-login hop.
//   - Auth path with an active session redirects to the dashboard.
//   - Everything else passes through.
func (g *Guard) Check(path string) Decision {
	live := g.hasSession()

	if isProtected(path) && !live {
		return Decision{RedirectTo: loginPath + "?from=" + url.QueryEscape(path)}
	}
	if isAuthRoute(path) && live {
		return Decision{RedirectTo: dashboardPath}
	}
	return Decision{Allow: true}
}
