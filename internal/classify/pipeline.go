// Package classify runs raw provider listings through the ordered acceptance
// stages and converts survivors to canonical listings.
package classify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"job_seeker/internal/dates"
	"job_seeker/internal/domain"
	"job_seeker/internal/textnorm"
)

// Store answers the persisted-duplicate questions. Rejected listings count as
// existing.
type Store interface {
	ExistsByLink(ctx context.Context, link string) (bool, error)
	ExistsByTitleCompany(ctx context.Context, title, company string) (bool, error)
}

// Expander widens a search term into its variants.
type Expander interface {
	Expand(term string) []string
}

// Options configures one run of the pipeline.
type Options struct {
	Term        string
	UserFilter  []string
	HomeCountry string
	Now         func() time.Time
	Logger      *slog.Logger
}

// Verdict is the outcome for one raw listing. Listing is set only when
// approved.
type Verdict struct {
	Raw     domain.RawListing
	Reason  domain.Reason
	Listing *domain.Listing
}

// Approved reports whether the record passed every stage.
func (v Verdict) Approved() bool {
	return v.Reason == domain.ReasonNone
}

// record is a raw listing with its normalized text precomputed.
type record struct {
	raw   domain.RawListing
	title string
	desc  string
}

// check returns ReasonNone to pass or the reason to reject.
type check func(ctx context.Context, r *record) domain.Reason

type stage struct {
	name  string
	check check
}

// Pipeline is the classification state machine. It is not safe for
// concurrent use; build one per run.
type Pipeline struct {
	store       Store
	resolver    *dates.Resolver
	term        string
	variants    []string
	userWords   []string
	homeCountry string
	now         func() time.Time
	logger      *slog.Logger

	seenLinks map[string]struct{}
	seenPairs map[string]struct{}

	stages []stage
}

// New builds a pipeline for opts.Term.
func New(store Store, expander Expander, opts Options) *Pipeline {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var words []string
	for _, w := range opts.UserFilter {
		if w = textnorm.Normalize(w); w != "" {
			words = append(words, w)
		}
	}

	p := &Pipeline{
		store:       store,
		resolver:    dates.NewResolver(now),
		term:        textnorm.Normalize(opts.Term),
		variants:    expander.Expand(opts.Term),
		userWords:   words,
		homeCountry: textnorm.Normalize(opts.HomeCountry),
		now:         now,
		logger:      logger,
		seenLinks:   make(map[string]struct{}),
		seenPairs:   make(map[string]struct{}),
	}

	p.stages = []stage{
		{name: "integrity", check: p.checkIntegrity},
		{name: "duplication", check: p.checkDuplicate},
		{name: "relevance", check: p.checkRelevance},
		{name: "exclusion", check: p.checkExclusion},
		{name: "technical_context", check: p.checkTechnical},
		{name: "user_filter", check: p.checkUserFilter},
	}

	return p
}

// Stages returns the stage names in evaluation order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.name
	}
	return names
}

// Variants returns the expanded term variants used for matching.
func (p *Pipeline) Variants() []string {
	return p.variants
}

// Classify runs raw through the stages, stopping at the first rejection.
func (p *Pipeline) Classify(ctx context.Context, raw domain.RawListing) Verdict {
	r := &record{
		raw:   raw,
		title: textnorm.Normalize(raw.Title),
		desc:  textnorm.Normalize(raw.Description),
	}

	for _, st := range p.stages {
		if reason := st.check(ctx, r); reason != domain.ReasonNone {
			p.logger.Debug("listing rejected",
				"stage", st.name,
				"reason", reason,
				"title", raw.Title,
				"link", raw.Link,
			)
			return Verdict{Raw: raw, Reason: reason}
		}
	}

	listing := p.canonical(raw)
	return Verdict{Raw: raw, Listing: &listing}
}

// ClassifyAll classifies raws in order.
func (p *Pipeline) ClassifyAll(ctx context.Context, raws []domain.RawListing) []Verdict {
	verdicts := make([]Verdict, 0, len(raws))
	for _, raw := range raws {
		verdicts = append(verdicts, p.Classify(ctx, raw))
	}
	return verdicts
}

func (p *Pipeline) checkIntegrity(_ context.Context, r *record) domain.Reason {
	if strings.TrimSpace(r.raw.Title) == "" || strings.TrimSpace(r.raw.Link) == "" {
		return domain.ReasonInvalid
	}
	return domain.ReasonNone
}

func (p *Pipeline) checkDuplicate(ctx context.Context, r *record) domain.Reason {
	link := strings.TrimSpace(r.raw.Link)
	title := strings.TrimSpace(r.raw.Title)
	company := strings.TrimSpace(r.raw.Company)
	pair := textnorm.Fold(title) + "|" + textnorm.Fold(company)

	if _, ok := p.seenLinks[link]; ok {
		return domain.ReasonDuplicate
	}
	if company != "" {
		if _, ok := p.seenPairs[pair]; ok {
			return domain.ReasonDuplicate
		}
	}

	exists, err := p.store.ExistsByLink(ctx, link)
	if err != nil {
		p.logger.Warn("duplicate check by link failed", "link", link, "error", err)
		return domain.ReasonDuplicate
	}
	if exists {
		return domain.ReasonDuplicate
	}

	if company != "" {
		exists, err = p.store.ExistsByTitleCompany(ctx, title, company)
		if err != nil {
			p.logger.Warn("duplicate check by title failed", "link", link, "error", err)
			return domain.ReasonDuplicate
		}
		if exists {
			return domain.ReasonDuplicate
		}
		p.seenPairs[pair] = struct{}{}
	}

	p.seenLinks[link] = struct{}{}
	return domain.ReasonNone
}

func (p *Pipeline) checkRelevance(_ context.Context, r *record) domain.Reason {
	if textnorm.ContainsAny(r.title, p.variants) || textnorm.ContainsAny(r.desc, p.variants) {
		return domain.ReasonNone
	}
	return domain.ReasonNoTerm
}

func (p *Pipeline) checkExclusion(_ context.Context, r *record) domain.Reason {
	if noiseRegex.MatchString(r.title) {
		return domain.ReasonExclusion
	}
	if engineeringRegex.MatchString(r.title) && !engineeringRegex.MatchString(p.term) {
		return domain.ReasonExclusion
	}
	return domain.ReasonNone
}

func (p *Pipeline) checkTechnical(_ context.Context, r *record) domain.Reason {
	if textnorm.ContainsAny(r.title, p.variants) {
		return domain.ReasonNone
	}
	if techRegex.MatchString(r.desc) {
		return domain.ReasonNone
	}
	return domain.ReasonNonTech
}

func (p *Pipeline) checkUserFilter(_ context.Context, r *record) domain.Reason {
	if len(p.userWords) == 0 {
		return domain.ReasonNone
	}
	if textnorm.ContainsAny(r.title, p.userWords) || textnorm.ContainsAny(r.desc, p.userWords) {
		return domain.ReasonNone
	}
	return domain.ReasonUserFilter
}

func (p *Pipeline) canonical(raw domain.RawListing) domain.Listing {
	description := raw.Description
	if strings.TrimSpace(description) == "" {
		description = domain.NoDescription
	}

	return domain.Listing{
		Title:       strings.TrimSpace(raw.Title),
		Company:     strings.TrimSpace(raw.Company),
		Location:    p.displayLocation(raw),
		Link:        strings.TrimSpace(raw.Link),
		Description: description,
		Source:      strings.ToLower(strings.TrimSpace(raw.Site)),
		PublishedAt: p.resolver.Published(raw),
		CreatedAt:   p.now().UTC(),
	}
}

// displayLocation uses the record's own origin tag, never orchestration state.
func (p *Pipeline) displayLocation(raw domain.RawListing) string {
	country := textnorm.Normalize(raw.OriginCountry)
	if raw.OriginRemote && country != "" && country != p.homeCountry {
		return "Remote (" + strings.ToUpper(country) + ")"
	}
	return raw.Location
}
