package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"

	"job_seeker/internal/config"
	"job_seeker/internal/domain"
	"job_seeker/internal/publisher"
	"job_seeker/internal/service"
	"job_seeker/internal/source/jobspy"
	"job_seeker/internal/storage"
	"job_seeker/internal/storage/postgres"
	"job_seeker/internal/storage/sqlite"
)

var errReadOnly = errors.New("storage is read-only")

// listingRepo is what both SQL drivers offer beyond the orchestrator's needs.
type listingRepo interface {
	service.ListingStore
	Get(ctx context.Context, id int64) (*domain.Listing, error)
	ListPending(ctx context.Context, limit int) ([]domain.Listing, error)
	MarkApplied(ctx context.Context, id int64) error
	MarkRejected(ctx context.Context, id int64) error
	RejectLinks(ctx context.Context, links []string) (int, error)
}

type runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *sqlx.DB
	listings  listingRepo
	runs      service.RunStore
	txManager *storage.TransactionManager
	publisher *publisher.RabbitMQ
}

func loadConfig(c *cli.Context) (*config.Config, *slog.Logger, error) {
	logger := setupLogger("info")

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, logger, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if l := c.String("log-level"); l != "" {
		level = l
	}
	return cfg, setupLogger(level), nil
}

// openRuntime connects the configured store. The broker is only dialed when
// withPublisher is set, the config enables it and storage is writable.
func openRuntime(c *cli.Context, withPublisher bool) (*runtime, error) {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: logger}

	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(c.Context, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		rt.db = db
		rt.listings = sqlite.NewListingStore(db)
		rt.runs = sqlite.NewRunStore(db)
	default:
		db, err := postgres.Open(c.Context, cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		rt.db = db
		rt.listings = postgres.NewListingStore(db)
		rt.runs = postgres.NewRunStore(db)
	}
	rt.txManager = storage.NewTransactionManager(rt.db)
	logger.Info("connected to database", "driver", cfg.Storage.Driver, "read_only", cfg.Storage.ReadOnly)

	if withPublisher && cfg.RabbitMQ.Enabled && !cfg.Storage.ReadOnly {
		pub, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			rt.db.Close()
			return nil, err
		}
		rt.publisher = pub
	}

	return rt, nil
}

func (rt *runtime) seeker() *service.SeekerService {
	source := jobspy.New(jobspy.Config{
		BaseURL:           rt.cfg.Provider.BaseURL,
		Sites:             rt.cfg.Provider.Sites,
		CountryIndeed:     rt.cfg.Provider.CountryIndeed,
		Timeout:           rt.cfg.Provider.Timeout,
		RequestsPerSecond: rt.cfg.Provider.RequestsPerSecond,
		MaxAttempts:       rt.cfg.Provider.Retry.MaxAttempts,
		InitialBackoff:    rt.cfg.Provider.Retry.InitialBackoff,
		MaxBackoff:        rt.cfg.Provider.Retry.MaxBackoff,
	}, rt.logger)

	var pub service.Publisher
	if rt.publisher != nil {
		pub = rt.publisher
	}

	return service.NewSeekerService(
		source,
		rt.listings,
		rt.runs,
		rt.txManager,
		pub,
		rt.logger,
		service.Options{
			Writable:     !rt.cfg.Storage.ReadOnly,
			HomeCountry:  rt.cfg.Search.HomeCountry,
			RemoteRoster: rt.cfg.Search.RemoteRoster,
		},
	)
}

// request merges command flags over the search section of the config.
func (rt *runtime) request(c *cli.Context) service.RunRequest {
	s := rt.cfg.Search
	req := service.RunRequest{
		Term:        s.Term,
		AltTerm:     s.AltTerm,
		Save:        s.Save,
		CountWanted: s.CountWanted,
		MaxAgeHours: s.MaxAgeHours,
		FilterWords: s.FilterWords,
		Location:    s.Location,
	}
	if c.IsSet("term") {
		req.Term = c.String("term")
		req.AltTerm = req.Term + " jobs"
	}
	if c.IsSet("alt-term") {
		req.AltTerm = c.String("alt-term")
	}
	if c.IsSet("location") {
		req.Location = c.String("location")
	}
	if c.IsSet("count") {
		req.CountWanted = c.Int("count")
	}
	if c.IsSet("max-age-hours") {
		req.MaxAgeHours = c.Int("max-age-hours")
	}
	if c.IsSet("filter") {
		req.FilterWords = c.String("filter")
	}
	if c.IsSet("save") {
		req.Save = c.Bool("save")
	}
	return req
}

func (rt *runtime) requireWritable() error {
	if rt.cfg.Storage.ReadOnly {
		return errReadOnly
	}
	return nil
}

func (rt *runtime) Close() {
	if rt.publisher != nil {
		rt.publisher.Close()
	}
	if rt.db != nil {
		rt.db.Close()
	}
}
