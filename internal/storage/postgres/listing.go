package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"job_seeker/internal/domain"
	"job_seeker/internal/storage"
	"job_seeker/internal/textnorm"
)

// ListingStore persists canonical listings. Rejected rows still count as
// existing for the duplicate lookups.
type ListingStore struct {
	db *sqlx.DB
}

func NewListingStore(db *sqlx.DB) *ListingStore {
	return &ListingStore{db: db}
}

func (s *ListingStore) ExistsByLink(ctx context.Context, link string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM listings WHERE link = $1)`
	if err := sqlx.GetContext(ctx, storage.GetExecutor(ctx, s.db), &exists, query, link); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *ListingStore) ExistsByTitleCompany(ctx context.Context, title, company string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM listings
			WHERE title_key = $1 AND company_key = $2
		)`
	if err := sqlx.GetContext(ctx, storage.GetExecutor(ctx, s.db), &exists, query,
		textnorm.Fold(title), textnorm.Fold(company),
	); err != nil {
		return false, err
	}
	return exists, nil
}

// InsertBatch inserts listings skipping links already stored and returns how
// many rows were written. Run it inside WithTransaction for all-or-nothing.
func (s *ListingStore) InsertBatch(ctx context.Context, listings []domain.Listing) (int, error) {
	query := `
		INSERT INTO listings (
			title, company, location, link, description, source,
			published_at, created_at, applied, rejected, title_key, company_key
		) VALUES (
			:title, :company, :location, :link, :description, :source,
			:published_at, :created_at, :applied, :rejected, :title_key, :company_key
		)
		ON CONFLICT (link) DO NOTHING`

	exec := storage.GetExecutor(ctx, s.db)
	inserted := 0
	for i := range listings {
		row := storage.Keyed(listings[i])
		res, err := sqlx.NamedExecContext(ctx, exec, query, &row)
		if err != nil {
			return inserted, fmt.Errorf("insert %s: %w", listings[i].Link, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, err
		}
		inserted += int(n)
	}
	return inserted, nil
}

func (s *ListingStore) Get(ctx context.Context, id int64) (*domain.Listing, error) {
	var listing domain.Listing
	query := `
		SELECT id, title, company, location, link, description, source,
		       published_at, created_at, applied, rejected
		FROM listings
		WHERE id = $1`

	err := sqlx.GetContext(ctx, storage.GetExecutor(ctx, s.db), &listing, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListPending returns listings neither applied to nor rejected, newest first.
func (s *ListingStore) ListPending(ctx context.Context, limit int) ([]domain.Listing, error) {
	query := `
		SELECT id, title, company, location, link, description, source,
		       published_at, created_at, applied, rejected
		FROM listings
		WHERE NOT applied AND NOT rejected
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	var listings []domain.Listing
	if err := sqlx.SelectContext(ctx, storage.GetExecutor(ctx, s.db), &listings, query, limit); err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *ListingStore) MarkApplied(ctx context.Context, id int64) error {
	return s.setFlag(ctx, `UPDATE listings SET applied = TRUE WHERE id = $1`, id)
}

// MarkRejected dismisses a listing for good.
func (s *ListingStore) MarkRejected(ctx context.Context, id int64) error {
	return s.setFlag(ctx, `UPDATE listings SET rejected = TRUE WHERE id = $1`, id)
}

// RejectLinks marks every stored listing in links as rejected and returns the
// number of rows touched.
func (s *ListingStore) RejectLinks(ctx context.Context, links []string) (int, error) {
	if len(links) == 0 {
		return 0, nil
	}

	res, err := storage.GetExecutor(ctx, s.db).ExecContext(ctx,
		`UPDATE listings SET rejected = TRUE WHERE link = ANY($1)`,
		pq.Array(links),
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *ListingStore) setFlag(ctx context.Context, query string, id int64) error {
	res, err := storage.GetExecutor(ctx, s.db).ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
