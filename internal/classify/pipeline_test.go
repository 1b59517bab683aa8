package classify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job_seeker/internal/domain"
	"job_seeker/internal/terms"
)

type fakeStore struct {
	listings []domain.Listing
	err      error
}

func (f *fakeStore) ExistsByLink(_ context.Context, link string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, l := range f.listings {
		if l.Link == link {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ExistsByTitleCompany(_ context.Context, title, company string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, l := range f.listings {
		if strings.EqualFold(l.Title, title) && strings.EqualFold(l.Company, company) {
			return true, nil
		}
	}
	return false, nil
}

var testNow = time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

func newPipeline(store Store, term string, filter ...string) *Pipeline {
	return New(store, terms.NewExpander(), Options{
		Term:        term,
		UserFilter:  filter,
		HomeCountry: "brazil",
		Now:         func() time.Time { return testNow },
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func techListing(link string) domain.RawListing {
	return domain.RawListing{
		Title:       "Bioinformatics Scientist",
		Company:     "Genome Labs",
		Location:    "São Paulo, SP",
		Link:        link,
		Description: "Analyse NGS data with Python.",
		Site:        "LinkedIn",
		PostedRaw:   "2 days ago",
	}
}

func TestPipeline_StageOrder(t *testing.T) {
	p := newPipeline(&fakeStore{}, "bioinformatics")
	assert.Equal(t, []string{
		"integrity", "duplication", "relevance", "exclusion", "technical_context", "user_filter",
	}, p.Stages())
}

func TestPipeline_Classify(t *testing.T) {
	existing := &fakeStore{listings: []domain.Listing{
		{Link: "https://jobs/existing", Title: "Bioinformatics Scientist", Company: "Old Corp"},
		{Link: "https://jobs/dismissed", Title: "Genomics Analyst", Company: "Seq Inc", Rejected: true},
	}}

	tests := []struct {
		name   string
		term   string
		filter []string
		raw    domain.RawListing
		want   domain.Reason
	}{
		{
			name: "missing link",
			term: "bioinformatics",
			raw:  domain.RawListing{Title: "Bioinformatics Scientist"},
			want: domain.ReasonInvalid,
		},
		{
			name: "empty title wins over duplicate link",
			term: "bioinformatics",
			raw:  domain.RawListing{Title: "  ", Link: "https://jobs/existing"},
			want: domain.ReasonInvalid,
		},
		{
			name: "duplicate link with different fields",
			term: "bioinformatics",
			raw: domain.RawListing{
				Title: "Completely Different", Company: "Other", Link: "https://jobs/existing",
			},
			want: domain.ReasonDuplicate,
		},
		{
			name: "sticky rejection suppresses link",
			term: "genomics",
			raw:  domain.RawListing{Title: "Genomics Analyst", Company: "New Co", Link: "https://jobs/dismissed"},
			want: domain.ReasonDuplicate,
		},
		{
			name: "duplicate title and company ignoring case",
			term: "bioinformatics",
			raw: domain.RawListing{
				Title: "BIOINFORMATICS scientist", Company: "old corp", Link: "https://jobs/new",
			},
			want: domain.ReasonDuplicate,
		},
		{
			name: "irrelevant",
			term: "bioinformatics",
			raw:  domain.RawListing{Title: "Vendedor Externo", Link: "https://jobs/1", Description: "Metas de vendas."},
			want: domain.ReasonNoTerm,
		},
		{
			name: "noise word next to the term",
			term: "bioinformática",
			raw:  domain.RawListing{Title: "Assistente de Vendas Bioinformática", Link: "https://jobs/2"},
			want: domain.ReasonExclusion,
		},
		{
			name: "engineering role when term is not engineering",
			term: "bioinformatics",
			raw:  domain.RawListing{Title: "Bioinformatics Engineer", Link: "https://jobs/3"},
			want: domain.ReasonExclusion,
		},
		{
			name: "engineering role when term is engineering",
			term: "data engineer",
			raw:  domain.RawListing{Title: "Senior Data Engineer", Link: "https://jobs/4"},
			want: domain.ReasonNone,
		},
		{
			name: "term only in a non technical description",
			term: "biotecnologia",
			raw: domain.RawListing{
				Title:       "Assistente Administrativo",
				Link:        "https://jobs/5",
				Description: "Empresa de biotecnologia busca assistente administrativo para rotinas de escritório.",
			},
			want: domain.ReasonNonTech,
		},
		{
			name: "term only in a technical description",
			term: "biotecnologia",
			raw: domain.RawListing{
				Title:       "Pesquisador Júnior",
				Link:        "https://jobs/6",
				Description: "Empresa de biotecnologia busca pesquisador com mestrado.",
			},
			want: domain.ReasonNone,
		},
		{
			name:   "user filter without hit",
			term:   "bioinformatics",
			filter: []string{"rust", " golang "},
			raw:    techListing("https://jobs/7"),
			want:   domain.ReasonUserFilter,
		},
		{
			name:   "user filter hit in description",
			term:   "bioinformatics",
			filter: []string{"PYTHON"},
			raw:    techListing("https://jobs/8"),
			want:   domain.ReasonNone,
		},
		{
			name: "synonym match",
			term: "bioinformatics",
			raw: domain.RawListing{
				Title: "Computational Biology Researcher", Link: "https://jobs/9",
			},
			want: domain.ReasonNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipeline(existing, tt.term, tt.filter...)
			v := p.Classify(context.Background(), tt.raw)
			assert.Equal(t, tt.want, v.Reason)
			assert.Equal(t, tt.want == domain.ReasonNone, v.Approved())
			assert.Equal(t, v.Approved(), v.Listing != nil)
		})
	}
}

func TestPipeline_DuplicateWithinRun(t *testing.T) {
	p := newPipeline(&fakeStore{}, "bioinformatics")
	ctx := context.Background()

	first := p.Classify(ctx, techListing("https://jobs/a"))
	sameLink := p.Classify(ctx, techListing("https://jobs/a"))
	samePair := p.Classify(ctx, techListing("https://jobs/b"))

	assert.True(t, first.Approved())
	assert.Equal(t, domain.ReasonDuplicate, sameLink.Reason)
	assert.Equal(t, domain.ReasonDuplicate, samePair.Reason)
}

func TestPipeline_DuplicateAccentedPairWithinRun(t *testing.T) {
	p := newPipeline(&fakeStore{}, "genomica")
	ctx := context.Background()

	first := techListing("https://jobs/g1")
	first.Title, first.Company = "Análise Genômica", "Laboratório Ômega"
	second := techListing("https://jobs/g2")
	second.Title, second.Company = "ANÁLISE GENÔMICA", "LABORATÓRIO ÔMEGA"

	assert.True(t, p.Classify(ctx, first).Approved())
	assert.Equal(t, domain.ReasonDuplicate, p.Classify(ctx, second).Reason)
}

func TestPipeline_Variants(t *testing.T) {
	p := newPipeline(&fakeStore{}, "Bioinformática")

	assert.Contains(t, p.Variants(), "bioinformatica")
	assert.Contains(t, p.Variants(), "computational biology")
}

func TestPipeline_BlankCompanySkipsPairCheck(t *testing.T) {
	store := &fakeStore{listings: []domain.Listing{{Link: "https://jobs/x", Title: "Bioinformatics Scientist"}}}
	p := newPipeline(store, "bioinformatics")

	raw := techListing("https://jobs/y")
	raw.Company = ""
	v := p.Classify(context.Background(), raw)

	assert.True(t, v.Approved())
}

func TestPipeline_StoreErrorCountsAsDuplicate(t *testing.T) {
	p := newPipeline(&fakeStore{err: errors.New("connection reset")}, "bioinformatics")

	v := p.Classify(context.Background(), techListing("https://jobs/z"))

	assert.Equal(t, domain.ReasonDuplicate, v.Reason)
}

func TestPipeline_CanonicalListing(t *testing.T) {
	p := newPipeline(&fakeStore{}, "bioinformatics")
	ctx := context.Background()

	raw := techListing("https://jobs/remote-1")
	raw.OriginCountry = "usa"
	raw.OriginRemote = true
	raw.Description = ""
	raw.Title = "  Bioinformatics Scientist  "

	v := p.Classify(ctx, raw)
	require.True(t, v.Approved())

	l := v.Listing
	assert.Equal(t, "Bioinformatics Scientist", l.Title)
	assert.Equal(t, "Remote (USA)", l.Location)
	assert.Equal(t, domain.NoDescription, l.Description)
	assert.Equal(t, "linkedin", l.Source)
	assert.Equal(t, "08/01/2024", l.PublishedAt)
	assert.Equal(t, testNow, l.CreatedAt)
	assert.False(t, l.Applied)
	assert.False(t, l.Rejected)
}

func TestPipeline_LocationUsesOwnOrigin(t *testing.T) {
	p := newPipeline(&fakeStore{}, "bioinformatics")
	ctx := context.Background()

	remote := techListing("https://jobs/r1")
	remote.Company = "A"
	remote.OriginCountry = "germany"
	remote.OriginRemote = true

	home := techListing("https://jobs/r2")
	home.Company = "B"
	home.OriginCountry = "brazil"
	home.OriginRemote = true

	local := techListing("https://jobs/r3")
	local.Company = "C"
	local.OriginCountry = "usa"

	verdicts := p.ClassifyAll(ctx, []domain.RawListing{remote, home, local})
	require.Len(t, verdicts, 3)

	assert.Equal(t, "Remote (GERMANY)", verdicts[0].Listing.Location)
	assert.Equal(t, "São Paulo, SP", verdicts[1].Listing.Location)
	assert.Equal(t, "São Paulo, SP", verdicts[2].Listing.Location)
}

func TestPipeline_UnknownDate(t *testing.T) {
	p := newPipeline(&fakeStore{}, "bioinformatics")

	raw := techListing("https://jobs/d1")
	raw.PostedRaw = "Posted a while back"

	v := p.Classify(context.Background(), raw)
	require.True(t, v.Approved())
	assert.Equal(t, domain.DateUnknown, v.Listing.PublishedAt)
}
