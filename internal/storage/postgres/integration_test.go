//go:build integration

package postgres

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"job_seeker/internal/domain"
	"job_seeker/internal/storage"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_listings.up.sql"),
			filepath.Join(migrationsPath, "002_create_runs.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := Open(s.ctx, connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM listings")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM runs")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func listing(link, title, company string) domain.Listing {
	return domain.Listing{
		Title:       title,
		Company:     company,
		Location:    "São Paulo",
		Link:        link,
		Description: "Pipelines NGS em Python.",
		Source:      "linkedin",
		PublishedAt: "07/01/2024",
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresIntegrationSuite) TestMigrate_IsIdempotent() {
	s.NoError(Migrate(s.ctx, s.db))
	s.NoError(Migrate(s.ctx, s.db))
}

func (s *PostgresIntegrationSuite) TestListingStore_InsertBatchSkipsKnownLinks() {
	store := NewListingStore(s.db)

	n, err := store.InsertBatch(s.ctx, []domain.Listing{
		listing("https://jobs/1", "Bioinformata", "Lab A"),
		listing("https://jobs/2", "Analista de Dados", "Lab B"),
	})
	s.NoError(err)
	s.Equal(2, n)

	n, err = store.InsertBatch(s.ctx, []domain.Listing{
		listing("https://jobs/2", "Analista de Dados", "Lab B"),
		listing("https://jobs/3", "Cientista de Dados", "Lab C"),
	})
	s.NoError(err)
	s.Equal(1, n)

	var count int
	s.NoError(s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM listings"))
	s.Equal(3, count)
}

func (s *PostgresIntegrationSuite) TestListingStore_Exists() {
	store := NewListingStore(s.db)
	_, err := store.InsertBatch(s.ctx, []domain.Listing{listing("https://jobs/1", "Bioinformata", "Lab A")})
	s.Require().NoError(err)

	exists, err := store.ExistsByLink(s.ctx, "https://jobs/1")
	s.NoError(err)
	s.True(exists)

	exists, err = store.ExistsByLink(s.ctx, "https://jobs/404")
	s.NoError(err)
	s.False(exists)

	exists, err = store.ExistsByTitleCompany(s.ctx, "BIOINFORMATA", "lab a")
	s.NoError(err)
	s.True(exists)
}

func (s *PostgresIntegrationSuite) TestListingStore_ExistsFoldsAccentedUppercase() {
	store := NewListingStore(s.db)
	_, err := store.InsertBatch(s.ctx, []domain.Listing{listing("https://jobs/acc", "Análise Genômica", "Laboratório Ômega")})
	s.Require().NoError(err)

	exists, err := store.ExistsByTitleCompany(s.ctx, "ANÁLISE GENÔMICA", "LABORATÓRIO ÔMEGA")
	s.NoError(err)
	s.True(exists)

	var titleKey string
	s.NoError(s.db.GetContext(s.ctx, &titleKey, "SELECT title_key FROM listings WHERE link = $1", "https://jobs/acc"))
	s.Equal("análise genômica", titleKey)
}

func (s *PostgresIntegrationSuite) TestListingStore_RejectedStillExists() {
	store := NewListingStore(s.db)
	_, err := store.InsertBatch(s.ctx, []domain.Listing{listing("https://jobs/1", "Bioinformata", "Lab A")})
	s.Require().NoError(err)

	n, err := store.RejectLinks(s.ctx, []string{"https://jobs/1", "https://jobs/unknown"})
	s.NoError(err)
	s.Equal(1, n)

	exists, err := store.ExistsByLink(s.ctx, "https://jobs/1")
	s.NoError(err)
	s.True(exists)

	pending, err := store.ListPending(s.ctx, 10)
	s.NoError(err)
	s.Empty(pending)
}

func (s *PostgresIntegrationSuite) TestListingStore_MarkAppliedAndRejected() {
	store := NewListingStore(s.db)
	_, err := store.InsertBatch(s.ctx, []domain.Listing{
		listing("https://jobs/1", "Bioinformata", "Lab A"),
		listing("https://jobs/2", "Cientista de Dados", "Lab B"),
	})
	s.Require().NoError(err)

	pending, err := store.ListPending(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(pending, 2)

	s.NoError(store.MarkApplied(s.ctx, pending[0].ID))
	s.NoError(store.MarkRejected(s.ctx, pending[1].ID))

	got, err := store.Get(s.ctx, pending[0].ID)
	s.NoError(err)
	s.True(got.Applied)
	s.False(got.Rejected)

	pending, err = store.ListPending(s.ctx, 10)
	s.NoError(err)
	s.Empty(pending)

	s.ErrorIs(store.MarkApplied(s.ctx, 999999), storage.ErrNotFound)
	_, err = store.Get(s.ctx, 999999)
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestRunStore_RecordRejectsDuplicateRunID() {
	store := NewRunStore(s.db)
	report := &domain.RunReport{
		RunID:         "run-1",
		Term:          "bioinformatics",
		Location:      "remote",
		Fetched:       5,
		FailedEntries: []string{"usa"},
		Counts:        domain.Counts{Approved: 2, Invalid: 1, Duplicate: 1, NoTerm: 1},
		Inserted:      2,
		StartedAt:     time.Now().UTC(),
		Duration:      3 * time.Second,
	}

	s.NoError(store.Record(s.ctx, report))
	s.ErrorIs(store.Record(s.ctx, report), storage.ErrConflict)

	var approved int
	s.NoError(s.db.GetContext(s.ctx, &approved, "SELECT approved FROM runs WHERE run_id = $1", "run-1"))
	s.Equal(2, approved)
}

func (s *PostgresIntegrationSuite) TestTransaction_Commit() {
	tm := storage.NewTransactionManager(s.db)
	listings := NewListingStore(s.db)
	runs := NewRunStore(s.db)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if _, err := listings.InsertBatch(ctx, []domain.Listing{listing("https://jobs/tx", "Bioinformata", "Lab A")}); err != nil {
			return err
		}
		return runs.Record(ctx, &domain.RunReport{RunID: "run-tx", Term: "bio", StartedAt: time.Now()})
	})
	s.NoError(err)

	exists, err := listings.ExistsByLink(s.ctx, "https://jobs/tx")
	s.NoError(err)
	s.True(exists)
}

func (s *PostgresIntegrationSuite) TestTransaction_RollbackDropsWholeBatch() {
	tm := storage.NewTransactionManager(s.db)
	listings := NewListingStore(s.db)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if _, err := listings.InsertBatch(ctx, []domain.Listing{
			listing("https://jobs/a", "Bioinformata", "Lab A"),
			listing("https://jobs/b", "Bioinformata", "Lab B"),
		}); err != nil {
			return err
		}
		return errors.New("run store unavailable")
	})
	s.Error(err)

	var count int
	s.NoError(s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM listings"))
	s.Equal(0, count)
}
