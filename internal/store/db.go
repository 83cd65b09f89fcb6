package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL backend behind a DB.
type Dialect int

const (
	// SQLite is the local fallback backend (pure Go driver, no CGO).
	SQLite Dialect = iota
	// Postgres is the production backend.
	Postgres
)

// DB wraps sql.DB together with the dialect it was opened with.
type DB struct {
	*sql.DB
	dialect Dialect
}

// Open connects to the database named by databaseURL. URLs with a
// postgres:// or postgresql:// scheme use the Postgres driver; anything
// else is treated as a SQLite path (an optional sqlite:// prefix is
// stripped). An empty URL falls back to a local opportunities.db file
// for quick testing without a database server.
func Open(databaseURL string) (*DB, error) {
	if databaseURL == "" {
		databaseURL = "opportunities.db"
	}

	var db *sql.DB
	var dialect Dialect
	var err error

	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		dialect = Postgres
		db, err = sql.Open("postgres", databaseURL)
	default:
		dialect = SQLite
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = sql.Open("sqlite", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == SQLite {
		// SQLite allows a single writer; funnel everything through one
		// connection so upserts serialize instead of returning SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
		if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &DB{DB: db, dialect: dialect}, nil
}

// Dialect reports which backend the database was opened with.
func (db *DB) Dialect() Dialect {
	return db.dialect
}
