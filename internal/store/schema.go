package store

import (
	"context"
	"fmt"
)

// Date columns are read and written as YYYY-MM-DD text at the SQL
// boundary so ordering and comparisons behave identically on both
// backends. The opportunities table realizes the record invariants:
// one row per url, title/url/last_seen required, everything else NULL.

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS opportunities (
  id SERIAL PRIMARY KEY,
  title TEXT NOT NULL,
  organizer TEXT,
  url TEXT UNIQUE NOT NULL,
  location TEXT,
  is_remote BOOLEAN NOT NULL DEFAULT FALSE,
  topic_tags TEXT,
  cfp_deadline DATE,
  event_date DATE,
  source TEXT,
  last_seen DATE NOT NULL
);
`

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS opportunities (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  organizer TEXT,
  url TEXT UNIQUE NOT NULL,
  location TEXT,
  is_remote BOOLEAN NOT NULL DEFAULT 0,
  topic_tags TEXT,
  cfp_deadline TEXT,
  event_date TEXT,
  source TEXT,
  last_seen TEXT NOT NULL
);
`

// EnsureSchema creates the opportunities table if it does not exist.
// Both commands run this once at startup before touching the store.
func (db *DB) EnsureSchema(ctx context.Context) error {
	schema := schemaSQLite
	if db.dialect == Postgres {
		schema = schemaPostgres
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
