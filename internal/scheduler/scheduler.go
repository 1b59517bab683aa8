package scheduler

import (
	"context"
	"log/slog"
	"time"

	"job_seeker/internal/domain"
	"job_seeker/internal/service"
)

// Seeker runs one search.
type Seeker interface {
	Run(ctx context.Context, req service.RunRequest) ([]domain.Listing, *domain.RunReport)
}

// Scheduler repeats the same search every interval until ctx ends. Runs never
// overlap.
type Scheduler struct {
	seeker   Seeker
	request  service.RunRequest
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewScheduler(seeker Seeker, req service.RunRequest, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		seeker:   seeker,
		request:  req,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"interval", s.interval,
		"term", s.request.Term,
		"location", s.request.Location,
	)

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	approved, rep := s.seeker.Run(runCtx, s.request)
	if rep.PersistError != "" {
		s.logger.Error("run not persisted", "run_id", rep.RunID, "error", rep.PersistError)
	}
	if len(rep.FailedEntries) > 0 {
		s.logger.Warn("run had failed plan entries", "run_id", rep.RunID, "failed_entries", rep.FailedEntries)
	}
	s.logger.Info("scheduled run finished", "run_id", rep.RunID, "approved", len(approved))
}
