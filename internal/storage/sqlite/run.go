package sqlite

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"job_seeker/internal/domain"
	"job_seeker/internal/storage"
)

type RunStore struct {
	db *sqlx.DB
}

func NewRunStore(db *sqlx.DB) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) Record(ctx context.Context, report *domain.RunReport) error {
	query := `
		INSERT INTO runs (
			run_id, term, location, fetched,
			approved, invalid, duplicate, no_term, exclusion, non_tech, user_filter,
			inserted, failed_entries, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id) DO NOTHING`

	res, err := storage.GetExecutor(ctx, s.db).ExecContext(ctx, query,
		report.RunID,
		report.Term,
		report.Location,
		report.Fetched,
		report.Approved,
		report.Invalid,
		report.Duplicate,
		report.NoTerm,
		report.Exclusion,
		report.NonTech,
		report.UserFilter,
		report.Inserted,
		strings.Join(report.FailedEntries, ","),
		report.StartedAt,
		report.StartedAt.Add(report.Duration),
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrConflict
	}
	return nil
}
