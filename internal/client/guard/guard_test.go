package guard

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	token string
}

func (f *fakeSession) Token() string { return f.token }

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestCheck_ProtectedWithoutSession_RedirectsToLoginWithFrom(t *testing.T) {
	g := New(&fakeSession{})

	d := g.Check("/dashboard")
	require.False(t, d.Allow)
	require.Equal(t, "/login?from=%2Fdashboard", d.RedirectTo)
}

func TestCheck_ProtectedSubpathWithoutSession_Redirects(t *testing.T) {
	g := New(&fakeSession{})

	d := g.Check("/dashboard/assets/42")
	require.False(t, d.Allow)
	require.Equal(t, "/login?from=%2Fdashboard%2Fassets%2F42", d.RedirectTo)
}

func TestCheck_AllProtectedPrefixes(t *testing.T) {
	g := New(&fakeSession{})
	for _, path := range []string{"/dashboard", "/get-gps", "/gps-verify", "/profile"} {
		d := g.Check(path)
		require.False(t, d.Allow, path)
	}
}

func TestCheck_AuthRouteWithSession_RedirectsToDashboard(t *testing.T) {
	g := New(&fakeSession{token: "opaque-token"})

	for _, path := range []string{"/login", "/signup", "/"} {
		d := g.Check(path)
		require.False(t, d.Allow, path)
		require.Equal(t, "/dashboard", d.RedirectTo, path)
	}
}

func TestCheck_AuthRouteWithoutSession_Allowed(t *testing.T) {
	g := New(&fakeSession{})
	for _, path := range []string{"/login", "/signup", "/"} {
		require.True(t, g.Check(path).Allow, path)
	}
}

func TestCheck_ProtectedWithSession_Allowed(t *testing.T) {
	g := New(&fakeSession{token: "opaque-token"})
	require.True(t, g.Check("/dashboard").Allow)
	require.True(t, g.Check("/profile").Allow)
}

func TestCheck_UnrelatedPath_PassesThrough(t *testing.T) {
	require.True(t, New(&fakeSession{}).Check("/about").Allow)
	require.True(t, New(&fakeSession{token: "x"}).Check("/about").Allow)
}

func TestCheck_ExpiredJWT_TreatedAsNoSession(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	g := New(&fakeSession{token: signedToken(t, now.Add(-time.Hour))})
	g.now = func() time.Time { return now }

	d := g.Check("/dashboard")
	require.False(t, d.Allow)
	require.Equal(t, "/login?from=%2Fdashboard", d.RedirectTo)
}

func TestCheck_ValidJWT_Allowed(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	g := New(&fakeSession{token: signedToken(t, now.Add(time.Hour))})
	g.now = func() time.Time { return now }

	require.True(t, g.Check("/dashboard").Allow)
}

func TestCheck_JWTWithoutExpiry_PresenceSuffices(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u"})
	s, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)

	g := New(&fakeSession{token: s})
	require.True(t, g.Check("/dashboard").Allow)
}
