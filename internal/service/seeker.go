package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"job_seeker/internal/classify"
	"job_seeker/internal/domain"
	"job_seeker/internal/report"
	"job_seeker/internal/terms"
	"job_seeker/internal/textnorm"
)

// Options are the orchestrator capabilities fixed at construction.
type Options struct {
	Writable     bool
	HomeCountry  string
	RemoteRoster []string
	Now          func() time.Time
}

// RunRequest is one caller-facing search. FilterWords is comma separated.
type RunRequest struct {
	Term        string
	AltTerm     string
	Save        bool
	CountWanted int
	MaxAgeHours int
	FilterWords string
	Location    string
}

type SeekerService struct {
	provider  Provider
	listings  ListingStore
	runs      RunStore
	txManager TransactionManager
	publisher Publisher
	expander  *terms.Expander
	logger    *slog.Logger
	opts      Options
}

func NewSeekerService(
	provider Provider,
	listings ListingStore,
	runs RunStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
	opts Options,
) *SeekerService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SeekerService{
		provider:  provider,
		listings:  listings,
		runs:      runs,
		txManager: txManager,
		publisher: publisher,
		expander:  terms.NewExpander(),
		logger:    logger.With("provider", provider.Name()),
		opts:      opts,
	}
}

// Run searches, classifies and optionally persists. It never fails: provider
// errors land in FailedEntries and persistence errors in PersistError, while
// approved listings are always returned.
func (s *SeekerService) Run(ctx context.Context, req RunRequest) ([]domain.Listing, *domain.RunReport) {
	startTime := s.opts.Now()
	rep := &domain.RunReport{
		RunID:     uuid.NewString(),
		Term:      req.Term,
		Location:  req.Location,
		StartedAt: startTime.UTC(),
	}
	logger := s.logger.With("run_id", rep.RunID)

	plan := BuildPlan(req.Location, req.CountWanted, s.opts.RemoteRoster)
	rep.PlanEntries = len(plan)

	logger.Info("starting run",
		"term", req.Term,
		"location", req.Location,
		"plan_entries", len(plan),
		"count_wanted", req.CountWanted,
		"max_age_hours", req.MaxAgeHours,
		"save", req.Save,
	)

	raws := s.fetch(ctx, logger, req, plan, rep)
	rep.Fetched = len(raws)
	logger.Info("fetched listings", "count", len(raws), "failed_entries", len(rep.FailedEntries))

	pipeline := classify.New(s.listings, s.expander, classify.Options{
		Term:        req.Term,
		UserFilter:  textnorm.SplitWords(req.FilterWords),
		HomeCountry: s.opts.HomeCountry,
		Now:         s.opts.Now,
		Logger:      logger,
	})
	logger.Debug("term variants", "variants", pipeline.Variants())

	reporter := report.New()
	var approved []domain.Listing
	for _, v := range pipeline.ClassifyAll(ctx, raws) {
		reporter.Record(v.Reason)
		if v.Approved() {
			approved = append(approved, *v.Listing)
		}
	}
	rep.Counts = reporter.Counts()

	if req.Save && s.opts.Writable {
		rep.Saved = true
		s.persist(ctx, logger, approved, rep)
		if rep.Persisted {
			s.publish(ctx, logger, approved, rep)
		}
	}

	rep.Duration = s.opts.Now().Sub(startTime)
	logger.Info("run completed",
		"summary", report.Summary(rep),
		"published", rep.Published,
		"duration", rep.Duration,
	)

	return approved, rep
}

// fetch queries the provider once per plan entry, in order. A failed entry
// contributes nothing.
func (s *SeekerService) fetch(
	ctx context.Context,
	logger *slog.Logger,
	req RunRequest,
	plan []domain.PlanEntry,
	rep *domain.RunReport,
) []domain.RawListing {
	var raws []domain.RawListing
	for _, entry := range plan {
		query := domain.SearchQuery{
			Term:        req.Term,
			AltTerm:     req.AltTerm,
			Location:    entry.Location,
			Country:     entry.Country,
			CountWanted: entry.CountWanted,
			MaxAgeHours: req.MaxAgeHours,
			Remote:      entry.Remote,
		}

		results, err := s.provider.Search(ctx, query)
		if err != nil {
			logger.Warn("plan entry failed",
				"country", entry.Country,
				"location", entry.Location,
				"error", err,
			)
			rep.FailedEntries = append(rep.FailedEntries, entry.Country)
			continue
		}

		logger.Debug("plan entry fetched", "country", entry.Country, "count", len(results))
		for _, raw := range results {
			raw.OriginCountry = entry.Country
			raw.OriginRemote = entry.Remote
			raws = append(raws, raw)
		}
	}
	return raws
}

// persist writes the approved batch and the run record in one transaction.
func (s *SeekerService) persist(
	ctx context.Context,
	logger *slog.Logger,
	approved []domain.Listing,
	rep *domain.RunReport,
) {
	var inserted int
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		n, err := s.listings.InsertBatch(txCtx, approved)
		if err != nil {
			return fmt.Errorf("insert listings: %w", err)
		}
		inserted = n

		snapshot := *rep
		snapshot.Inserted = n
		snapshot.Duration = s.opts.Now().Sub(rep.StartedAt)
		if err := s.runs.Record(txCtx, &snapshot); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("persist failed, batch rolled back", "approved", len(approved), "error", err)
		rep.PersistError = err.Error()
		return
	}

	rep.Persisted = true
	rep.Inserted = inserted
	logger.Info("listings persisted", "approved", len(approved), "inserted", inserted)
}

func (s *SeekerService) publish(
	ctx context.Context,
	logger *slog.Logger,
	approved []domain.Listing,
	rep *domain.RunReport,
) {
	if s.publisher == nil {
		return
	}
	for i := range approved {
		if err := s.publisher.Publish(ctx, &approved[i]); err != nil {
			logger.Warn("publish failed", "link", approved[i].Link, "error", err)
			rep.PublishErrors++
			continue
		}
		rep.Published++
	}
}
