// Package jobspy queries a JobSpy-compatible HTTP API for job listings.
package jobspy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"job_seeker/internal/domain"
)

const (
	SourceName = "jobspy"
	searchPath = "/api/v1/search_jobs"
)

type Config struct {
	BaseURL           string
	Sites             []string
	CountryIndeed     string
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
}

// Source implements service.Provider over the JobSpy API.
type Source struct {
	httpClient     *http.Client
	limiter        *rate.Limiter
	baseURL        string
	sites          []string
	countryIndeed  string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:        rate.NewLimiter(limit, 1),
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		sites:          cfg.Sites,
		countryIndeed:  cfg.CountryIndeed,
		maxAttempts:    maxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("source", SourceName),
	}
}

func (s *Source) Name() string {
	return SourceName
}

// Search runs one provider query.
func (s *Source) Search(ctx context.Context, query domain.SearchQuery) ([]domain.RawListing, error) {
	body := searchRequest{
		SiteName:                 s.sites,
		SearchTerm:               query.Term,
		GoogleSearchTerm:         query.AltTerm,
		Location:                 query.Location,
		ResultsWanted:            query.CountWanted,
		HoursOld:                 query.MaxAgeHours,
		CountryIndeed:            s.countryIndeed,
		IsRemote:                 query.Remote,
		LinkedinFetchDescription: true,
	}
	if query.Remote && query.Country != "" {
		body.CountryIndeed = query.Country
	}

	resp, err := s.fetch(ctx, body)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search completed",
		"location", query.Location,
		"remote", query.Remote,
		"jobs", len(resp.Jobs),
	)

	return transform(resp.Jobs), nil
}

func (s *Source) fetch(ctx context.Context, body searchRequest) (*searchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var resp *searchResponse
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err = s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}

		resp, err = s.doRequest(ctx, payload)
		if err == nil {
			return resp, nil
		}

		if attempt == s.maxAttempts {
			break
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
}

func (s *Source) doRequest(ctx context.Context, payload []byte) (*searchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+searchPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "JobSeeker/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var apiResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &apiResp, nil
}

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}

func transform(jobs []Job) []domain.RawListing {
	raws := make([]domain.RawListing, 0, len(jobs))
	for _, j := range jobs {
		raws = append(raws, domain.RawListing{
			Title:       j.Title,
			Company:     j.Company,
			Location:    j.Location,
			Link:        j.JobURL,
			Description: j.Description,
			Site:        j.Site,
			PostedRaw:   j.DatePosted.Raw,
			PostedAt:    j.DatePosted.At,
		})
	}
	return raws
}
