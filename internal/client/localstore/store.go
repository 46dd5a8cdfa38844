package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/trackkar/trackkar-cli/internal/dbx"
)

// State keys. The token pair mirrors the web client's path-scoped cookie:
// a value plus an expiry honored on read.
const (
	keyToken       = "token"
	keyTokenExpiry = "token_expires"
	keyTheme       = "theme"
	keyLastGPSID   = "last_gps_id"
)

// Store is a key/value repository over the client_state table.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) get(ctx context.Context, q dbx.DBTX, key string) (string, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM client_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get state[%s]: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) set(ctx context.Context, q dbx.DBTX, key, value string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO client_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set state[%s]: %w", key, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, q dbx.DBTX, key string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM client_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete state[%s]: %w", key, err)
	}
	return nil
}

// SaveToken persists the session token together with its expiry, in a
// single transaction so a crash cannot leave a token without a deadline.
func (s *Store) SaveToken(ctx context.Context, token string, expiresAt time.Time) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.set(ctx, tx, keyToken, token); err != nil {
			return err
		}
		return s.set(ctx, tx, keyTokenExpiry, expiresAt.UTC().Format(time.RFC3339))
	})
}

// LoadToken returns the persisted session token, if any. An expired or
// malformed record is cleared and reported as absent.
func (s *Store) LoadToken(ctx context.Context) (string, bool, error) {
	token, ok, err := s.get(ctx, s.db, keyToken)
	if err != nil || !ok || token == "" {
		return "", false, err
	}

	raw, ok, err := s.get(ctx, s.db, keyTokenExpiry)
	if err != nil {
		return "", false, err
	}
	if ok {
		expiry, perr := time.Parse(time.RFC3339, raw)
		if perr != nil || time.Now().After(expiry) {
			_ = s.ClearToken(ctx)
			return "", false, nil
		}
	}
	return token, true, nil
}

// ClearToken removes the persisted token and its expiry.
func (s *Store) ClearToken(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.delete(ctx, tx, keyToken); err != nil {
			return err
		}
		return s.delete(ctx, tx, keyTokenExpiry)
	})
}

// Theme returns the stored theme preference, defaulting to "system".
func (s *Store) Theme(ctx context.Context) (string, error) {
	theme, ok, err := s.get(ctx, s.db, keyTheme)
	if err != nil {
		return "", err
	}
	if !ok {
		return "system", nil
	}
	return theme, nil
}

func (s *Store) SetTheme(ctx context.Context, theme string) error {
	return s.set(ctx, s.db, keyTheme, theme)
}

// LastVerifiedGPSID remembers the tracker verified most recently through
// the gps-verify flow, so the dialog can prefill it next time.
func (s *Store) LastVerifiedGPSID(ctx context.Context) (string, error) {
	id, _, err := s.get(ctx, s.db, keyLastGPSID)
	return id, err
}

func (s *Store) SetLastVerifiedGPSID(ctx context.Context, gpsID string) error {
	return s.set(ctx, s.db, keyLastGPSID, gpsID)
}
