// Package session holds the authenticated user's identity and bearer token.
// The store is constructed explicitly and passed to the components that need
// it; there is no ambient global session.
package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/trackkar/trackkar-cli/internal/client/api"
	"github.com/trackkar/trackkar-cli/internal/client/localstore"
	"github.com/trackkar/trackkar-cli/internal/client/models"
	"github.com/trackkar/trackkar-cli/internal/logging"
)

// TokenTTL mirrors the web client's 7-day cookie expiry.
const TokenTTL = 7 * 24 * time.Hour

const minPasswordLength = 6

var (
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrInvalidPassword  = fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Same shape the web client enforced: something@domain.tld, no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Store is the auth state store.
//
// It owns the current user record exclusively; other components read it via
// User() and must not mutate it. The persisted token outlives the process
// through the localstore, the in-memory copy is rebuilt by Init.
type Store struct {
	client api.Client
	state  *localstore.Store
	log    logging.Logger

	mu    sync.RWMutex
	token string
	user  *models.User
}

func NewStore(client api.Client, state *localstore.Store, log logging.Logger) *Store {
	return &Store{client: client, state: state, log: log}
}

// Token returns the current bearer token, or "" when logged out.
// Satisfies api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user, or nil when logged out.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether a session token is present.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Init restores a persisted session. A stored token is only trusted after a
// successful profile fetch; any failure is absorbed into a clean logout so
// a stale token never blocks startup.
func (s *Store) Init(ctx context.Context) {
	token, ok, err := s.state.LoadToken(ctx)
	if err != nil {
		s.log.Warn(ctx, "could not read persisted session", "error", err)
		return
	}
	if !ok {
		return
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := s.client.GetProfile(ctx)
	if err != nil {
		s.log.Warn(ctx, "persisted session rejected, logging out", "error", err)
		s.Logout(ctx)
		return
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.log.Info(ctx, "session restored", "email", user.Email)
}

func validateCredentials(email, password string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return ErrInvalidPassword
	}
	return nil
}

// Signup creates an account and opens a session. Credential format is
// checked locally before any network call.
func (s *Store) Signup(ctx context.Context, email, password string) error {
	if err := validateCredentials(email, password); err != nil {
		return err
	}
	resp, err := s.client.Signup(ctx, email, password)
	if err != nil {
		return err
	}
	return s.establish(ctx, email, resp)
}

// Login authenticates and opens a session. Credential format is checked
// locally before any network call.
func (s *Store) Login(ctx context.Context, email, password string) error {
	if err := validateCredentials(email, password); err != nil {
		return err
	}
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.establish(ctx, email, resp)
}

// establish persists the token with its 7-day expiry, installs a minimal
// user record, then enriches it with a best-effort profile fetch. The
// enrichment failure is logged, never surfaced: a valid token with an
// unreachable profile endpoint is still a session.
func (s *Store) establish(ctx context.Context, email string, resp *api.AuthResponse) error {
	if err := s.state.SaveToken(ctx, resp.Token, time.Now().Add(TokenTTL)); err != nil {
		s.log.Warn(ctx, "could not persist session token", "error", err)
	}

	s.mu.Lock()
	s.token = resp.Token
	s.user = &models.User{ID: resp.UserID, Email: email}
	s.mu.Unlock()

	if user, err := s.client.GetProfile(ctx); err != nil {
		s.log.Warn(ctx, "profile enrichment failed", "error", err)
	} else {
		s.mu.Lock()
		s.user = user
		s.mu.Unlock()
	}
	return nil
}

// Logout clears the session unconditionally. It never fails; storage
// errors are logged and the in-memory state is dropped regardless.
func (s *Store) Logout(ctx context.Context) {
	if err := s.state.ClearToken(ctx); err != nil {
		s.log.Warn(ctx, "could not clear persisted token", "error", err)
	}
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
}

// UpdateProfile sends a partial profile update. On success the stored user
// is replaced by the server's record; on failure the state is untouched and
// the error is returned for display. Some backends acknowledge with a bare
// user record, without the profile; the update is then merged onto the
// current profile locally so the change is visible immediately.
func (s *Store) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error {
	if !s.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	user, err := s.client.UpdateProfile(ctx, upd)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if user.Profile == nil {
		base := models.Profile{}
		if s.user != nil && s.user.Profile != nil {
			base = *s.user.Profile
		}
		merged := base.Apply(upd)
		user.Profile = &merged
	}
	s.user = user
	s.mu.Unlock()
	return nil
}
