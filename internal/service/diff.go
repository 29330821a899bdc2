package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/scrapediff/internal/core"
	"github.com/target/scrapediff/internal/domain/model"
	"github.com/target/scrapediff/internal/domain/reconcile"
	apperrors "github.com/target/scrapediff/internal/errors"
	"github.com/target/scrapediff/internal/observability/metrics"
	"github.com/target/scrapediff/internal/observability/statsd"
)

// applySuccessMessage is reported when every batch of a decision set commits.
const applySuccessMessage = "Changes applied successfully"

// DiffServiceOptions groups dependencies for DiffService.
type DiffServiceOptions struct {
	Sources   core.EventSourceRepository // Required
	Jobs      core.ScrapeJobRepository   // Required
	Events    core.EventRecordRepository // Required
	Decisions core.DecisionRepository    // Required
	Logger    *slog.Logger               // Optional: structured logger
	Metrics   statsd.Sink                // Optional: metrics sink (StatsD-compatible)
}

// DiffService computes diffs between successful scrapes and applies moderation decisions.
type DiffService struct {
	sources   core.EventSourceRepository
	jobs      core.ScrapeJobRepository
	events    core.EventRecordRepository
	decisions core.DecisionRepository
	logger    *slog.Logger
	metrics   statsd.Sink
}

// NewDiffService constructs a new DiffService.
func NewDiffService(opts DiffServiceOptions) (*DiffService, error) {
	switch {
	case opts.Sources == nil:
		return nil, errors.New("EventSourceRepository is required")
	case opts.Jobs == nil:
		return nil, errors.New("ScrapeJobRepository is required")
	case opts.Events == nil:
		return nil, errors.New("EventRecordRepository is required")
	case opts.Decisions == nil:
		return nil, errors.New("DecisionRepository is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DiffService{
		sources:   opts.Sources,
		jobs:      opts.Jobs,
		events:    opts.Events,
		decisions: opts.Decisions,
		logger:    logger.With("component", "diff_service"),
		metrics:   opts.Metrics,
	}, nil
}

// MustNewDiffService constructs a new DiffService and panics on error.
func MustNewDiffService(opts DiffServiceOptions) *DiffService {
	svc, err := NewDiffService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create DiffService: %v", err))
	}
	return svc
}

// Compute diffs the two most recent successful scrapes of a source.
func (s *DiffService) Compute(ctx context.Context, sourceID string) (*model.SourceDiff, error) {
	source, err := s.sources.GetByID(ctx, sourceID)
	if err != nil {
		return nil, mapRepoError(err, "get event source")
	}

	jobs, err := s.jobs.LatestSuccessful(ctx, sourceID, 2)
	if err != nil {
		return nil, mapRepoError(err, "load successful scrapes")
	}
	if len(jobs) < 2 {
		return nil, mapRepoError(model.ErrNotEnoughScrapes, fmt.Sprintf("source %s", sourceID))
	}

	diff, err := s.diffJobs(ctx, jobs[0], jobs[1])
	if err != nil {
		return nil, err
	}
	diff.Source = source
	return diff, nil
}

// CompareJobs diffs two explicit jobs. The jobs need not belong to the same source.
func (s *DiffService) CompareJobs(ctx context.Context, latestID, previousID string) (*model.SourceDiff, error) {
	if latestID == previousID {
		return nil, apperrors.Validation("latest and previous job must differ")
	}
	latest, err := s.jobs.GetByID(ctx, latestID)
	if err != nil {
		return nil, mapRepoError(err, "get latest scrape job")
	}
	previous, err := s.jobs.GetByID(ctx, previousID)
	if err != nil {
		return nil, mapRepoError(err, "get previous scrape job")
	}
	return s.diffJobs(ctx, latest, previous)
}

func (s *DiffService) diffJobs(ctx context.Context, latest, previous *model.ScrapeJob) (*model.SourceDiff, error) {
	latestEvents, err := s.events.ListByJob(ctx, latest.ID)
	if err != nil {
		return nil, mapRepoError(err, "load latest events")
	}
	previousEvents, err := s.events.ListByJob(ctx, previous.ID)
	if err != nil {
		return nil, mapRepoError(err, "load previous events")
	}

	result := reconcile.Categorize(latestEvents, previousEvents)
	summary := result.Summary()
	s.logger.DebugContext(ctx, "diff computed",
		"latest_job_id", latest.ID,
		"previous_job_id", previous.ID,
		"new", summary.New,
		"modified", summary.Modified,
		"unchanged", summary.Unchanged,
		"removed", summary.Removed,
	)

	return &model.SourceDiff{
		Latest:   *latest,
		Previous: *previous,
		Diff:     result,
		Summary:  summary,
	}, nil
}

// Apply commits a moderation decision set atomically. The returned outcome
// always describes the result; the error is non-nil whenever Success is false.
func (s *DiffService) Apply(ctx context.Context, sourceID string, decisions model.DecisionSet) (model.ApplyOutcome, error) {
	if err := decisions.Validate(); err != nil {
		verr := apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid decision set")
		s.emitApply(sourceID, 0, verr)
		return model.ApplyOutcome{Success: false, Error: verr.Error()}, verr
	}

	updated, err := s.decisions.Apply(ctx, core.ApplyDecisionsParams{SourceID: sourceID, Decisions: decisions})
	if err != nil {
		aerr := applyError(err)
		s.logger.WarnContext(ctx, "apply decisions failed", "source_id", sourceID, "error", err)
		s.emitApply(sourceID, 0, aerr)
		return model.ApplyOutcome{Success: false, Error: aerr.Error()}, aerr
	}

	total := 0
	for _, n := range updated {
		total += n
	}
	s.logger.InfoContext(ctx, "decisions applied", "source_id", sourceID, "rows", total)
	s.emitApply(sourceID, total, nil)

	return model.ApplyOutcome{Success: true, Message: applySuccessMessage, Updated: updated}, nil
}

func applyError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return apperrors.Wrap(err, apperrors.ErrCodeCanceled, "apply decisions")
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(err, apperrors.ErrCodeTimeout, "apply decisions")
	case apperrors.IsValidation(err):
		return err
	default:
		return apperrors.Apply(err, "apply decisions")
	}
}

func (s *DiffService) emitApply(sourceID string, updated int, err error) {
	result := metrics.ResultSuccess
	switch {
	case err != nil:
		result = metrics.ResultError
	case updated == 0:
		result = metrics.ResultNoop
	}
	metrics.EmitDiffApply(s.metrics, metrics.DiffApplyMetric{
		Result:  result,
		Updated: updated,
		Scoped:  sourceID != "",
		Err:     err,
	})
}
