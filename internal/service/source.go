package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/target/scrapediff/internal/core"
	"github.com/target/scrapediff/internal/domain/model"
	apperrors "github.com/target/scrapediff/internal/errors"
)

// SourceServiceOptions groups dependencies for SourceService.
type SourceServiceOptions struct {
	Sources   core.EventSourceRepository // Required
	Jobs      core.ScrapeJobRepository   // Required
	Dashboard core.DashboardRepository   // Optional: enables Dashboard
	Logger    *slog.Logger               // Optional: structured logger
}

// SourceService manages event sources, their scrape history and dashboard.
type SourceService struct {
	sources   core.EventSourceRepository
	jobs      core.ScrapeJobRepository
	dashboard core.DashboardRepository
	logger    *slog.Logger
}

// NewSourceService constructs a new SourceService.
func NewSourceService(opts SourceServiceOptions) (*SourceService, error) {
	if opts.Sources == nil {
		return nil, errors.New("EventSourceRepository is required")
	}
	if opts.Jobs == nil {
		return nil, errors.New("ScrapeJobRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SourceService{
		sources:   opts.Sources,
		jobs:      opts.Jobs,
		dashboard: opts.Dashboard,
		logger:    logger.With("component", "source_service"),
	}, nil
}

// MustNewSourceService constructs a new SourceService and panics on error.
func MustNewSourceService(opts SourceServiceOptions) *SourceService {
	svc, err := NewSourceService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create SourceService: %v", err))
	}
	return svc
}

// Create registers a source. The strategy defaults to generic_ai and the
// domain is derived from the URL host.
func (s *SourceService) Create(ctx context.Context, req model.CreateEventSourceRequest) (*model.EventSource, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid event source")
	}

	source, err := s.sources.Create(ctx, model.CreateEventSourceParams{
		URL:            req.URL,
		ScrapeStrategy: req.ScrapeStrategy,
		Domain:         SourceDomain(req.URL),
	})
	if err != nil {
		return nil, mapRepoError(err, "create event source")
	}
	if !source.ScrapeStrategy.Known() {
		s.logger.WarnContext(ctx, "event source registered with unknown strategy",
			"source_id", source.ID,
			"strategy", source.ScrapeStrategy,
		)
	}
	return source, nil
}

// Get returns a source by id.
func (s *SourceService) Get(ctx context.Context, id string) (*model.EventSource, error) {
	source, err := s.sources.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "get event source")
	}
	return source, nil
}

// List returns sources with pagination.
func (s *SourceService) List(ctx context.Context, opts model.EventSourceListOptions) ([]*model.EventSource, error) {
	sources, err := s.sources.List(ctx, opts)
	if err != nil {
		return nil, mapRepoError(err, "list event sources")
	}
	return sources, nil
}

// Update changes the url and/or strategy of a source. The domain follows the url.
func (s *SourceService) Update(
	ctx context.Context,
	id string,
	req model.UpdateEventSourceRequest,
) (*model.EventSource, error) {
	if req.ScrapeStrategy != nil {
		strategy := model.ScrapeStrategy(strings.ToLower(strings.TrimSpace(string(*req.ScrapeStrategy))))
		req.ScrapeStrategy = &strategy
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid event source update")
	}

	params := model.UpdateEventSourceParams{ScrapeStrategy: req.ScrapeStrategy}
	if req.URL != nil {
		u := strings.TrimSpace(*req.URL)
		domain := SourceDomain(u)
		params.URL = &u
		params.Domain = &domain
	}

	source, err := s.sources.Update(ctx, id, params)
	if err != nil {
		return nil, mapRepoError(err, "update event source")
	}
	return source, nil
}

// History returns the scrape jobs of a source, newest first.
func (s *SourceService) History(ctx context.Context, opts model.ScrapeJobListOptions) ([]*model.ScrapeJob, error) {
	if _, err := s.sources.GetByID(ctx, opts.SourceID); err != nil {
		return nil, mapRepoError(err, "get event source")
	}
	jobs, err := s.jobs.List(ctx, opts)
	if err != nil {
		return nil, mapRepoError(err, "list scrape jobs")
	}
	return jobs, nil
}

// Dashboard summarizes job counts of a source and the moderation state of its
// latest successful scrape.
func (s *SourceService) Dashboard(ctx context.Context, sourceID string) (*model.SourceDashboard, error) {
	if s.dashboard == nil {
		return nil, errors.New("dashboard repository not configured")
	}

	source, err := s.sources.GetByID(ctx, sourceID)
	if err != nil {
		return nil, mapRepoError(err, "get event source")
	}

	counts, err := s.dashboard.JobCounts(ctx, sourceID)
	if err != nil {
		return nil, mapRepoError(err, "count scrape jobs")
	}
	out := &model.SourceDashboard{Source: *source, Jobs: counts}

	latest, err := s.jobs.LatestSuccessful(ctx, sourceID, 1)
	if err != nil {
		return nil, mapRepoError(err, "load latest scrape")
	}
	if len(latest) == 0 {
		return out, nil
	}

	events, err := s.dashboard.EventCounts(ctx, latest[0].ID)
	if err != nil {
		return nil, mapRepoError(err, "count events")
	}
	out.LatestJob = latest[0]
	out.LatestEvents = events
	return out, nil
}

// SourceDomain returns the registrable domain (eTLD+1) of a source URL.
// Hosts without a public suffix, such as IPs or localhost, are returned as is.
func SourceDomain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" || net.ParseIP(host) != nil {
		return host
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return etld1
}
