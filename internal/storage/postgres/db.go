package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"job_seeker/migrations"
)

// Open connects and pings the database behind dsn.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// Migrate applies every embedded up migration in name order. The scripts are
// idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	names, err := fs.Glob(migrations.FS, "*.up.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}
