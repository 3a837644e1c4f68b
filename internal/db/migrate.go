package db

import (
	"context"
	"fmt"
)

const postgresMigration = `
CREATE TABLE IF NOT EXISTS identities (
    id text PRIMARY KEY,
    display_name text NOT NULL,
    email text NOT NULL,
    profile_image_url text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW()
);
`

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS identities (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    email TEXT NOT NULL,
    profile_image_url TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);
`

// Migrate creates the identity schema if it does not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	var stmt string
	switch d.Dialect {
	case Postgres:
		stmt = postgresMigration
	case SQLite:
		stmt = sqliteMigration
	default:
		return fmt.Errorf("db: unsupported dialect %q", d.Dialect)
	}

	if _, err := d.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("db: migrate %s: %w", d.Dialect, err)
	}
	return nil
}
