// Package sqlite is the local listing store used in public mode, when no
// postgres database is configured.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

const schema = `
CREATE TABLE IF NOT EXISTS listings (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    title        TEXT     NOT NULL,
    company      TEXT     NOT NULL DEFAULT '',
    location     TEXT     NOT NULL DEFAULT '',
    link         TEXT     NOT NULL UNIQUE,
    description  TEXT     NOT NULL,
    source       TEXT     NOT NULL DEFAULT '',
    published_at TEXT     NOT NULL DEFAULT 'N/A',
    created_at   DATETIME NOT NULL,
    applied      BOOLEAN  NOT NULL DEFAULT 0,
    rejected     BOOLEAN  NOT NULL DEFAULT 0,
    title_key    TEXT     NOT NULL DEFAULT '',
    company_key  TEXT     NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_listings_title_company_key ON listings (title_key, company_key);

CREATE TABLE IF NOT EXISTS runs (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id         TEXT     NOT NULL UNIQUE,
    term           TEXT     NOT NULL,
    location       TEXT     NOT NULL DEFAULT '',
    fetched        INTEGER  NOT NULL DEFAULT 0,
    approved       INTEGER  NOT NULL DEFAULT 0,
    invalid        INTEGER  NOT NULL DEFAULT 0,
    duplicate      INTEGER  NOT NULL DEFAULT 0,
    no_term        INTEGER  NOT NULL DEFAULT 0,
    exclusion      INTEGER  NOT NULL DEFAULT 0,
    non_tech       INTEGER  NOT NULL DEFAULT 0,
    user_filter    INTEGER  NOT NULL DEFAULT 0,
    inserted       INTEGER  NOT NULL DEFAULT 0,
    failed_entries TEXT     NOT NULL DEFAULT '',
    started_at     DATETIME NOT NULL,
    finished_at    DATETIME NOT NULL
);
`

// Open opens the database file at path and applies the schema.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// one writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply sqlite schema: %w", err)
	}
	return nil
}
