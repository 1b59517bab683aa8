package postgres

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"job_seeker/internal/domain"
	"job_seeker/internal/storage"
)

const uniqueViolation = "23505"

// RunStore keeps one summary row per pipeline run.
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
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)`

	failed := report.FailedEntries
	if failed == nil {
		failed = []string{}
	}

	_, err := storage.GetExecutor(ctx, s.db).ExecContext(ctx, query,
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
		pq.Array(failed),
		report.StartedAt,
		report.StartedAt.Add(report.Duration),
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return storage.ErrConflict
	}
	return err
}
