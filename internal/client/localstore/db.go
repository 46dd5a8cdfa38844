// Package localstore persists the small amount of durable client state the
// dashboard keeps between runs: the session token (the browser-cookie
// analogue), the theme preference, and the last verified GPS device. It is
// backed by a local sqlite database with embedded goose migrations.
package localstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/trackkar/trackkar-cli/internal/client/localstore/migrations"

	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) the client state database at dsn and
// applies pending migrations.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating state db: %w", err)
	}
	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
