package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"job_seeker/internal/domain"
)

// Provider is an opaque, possibly failing search source.
type Provider interface {
	Name() string
	Search(ctx context.Context, query domain.SearchQuery) ([]domain.RawListing, error)
}

// ListingStore counts rejected listings as existing.
type ListingStore interface {
	ExistsByLink(ctx context.Context, link string) (bool, error)
	ExistsByTitleCompany(ctx context.Context, title, company string) (bool, error)
	InsertBatch(ctx context.Context, listings []domain.Listing) (int, error)
}

type RunStore interface {
	Record(ctx context.Context, report *domain.RunReport) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, listing *domain.Listing) error
	Close() error
}
