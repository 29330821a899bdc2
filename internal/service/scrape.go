package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/target/scrapediff/config"
	"github.com/target/scrapediff/internal/core"
	"github.com/target/scrapediff/internal/domain/fingerprint"
	"github.com/target/scrapediff/internal/domain/model"
	apperrors "github.com/target/scrapediff/internal/errors"
	obserrors "github.com/target/scrapediff/internal/observability/errors"
	"github.com/target/scrapediff/internal/observability/metrics"
	"github.com/target/scrapediff/internal/observability/notify"
	"github.com/target/scrapediff/internal/observability/statsd"
)

// terminalWriteTimeout bounds the detached terminal transition of a job.
const terminalWriteTimeout = 10 * time.Second

// FailureNotifier receives scrape jobs that ended in ERROR.
type FailureNotifier interface {
	NotifyScrapeFailure(ctx context.Context, payload notify.ScrapeFailurePayload)
}

// ScrapeServiceOptions groups dependencies for ScrapeService.
type ScrapeServiceOptions struct {
	Sources   core.EventSourceRepository // Required
	Jobs      core.ScrapeJobRepository   // Required
	Events    core.EventRecordRepository // Required
	Extractor core.Extractor             // Required
	Locker    core.SourceLocker          // Optional: defaults to an in-process locker
	Config    config.ScrapeConfig
	Logger    *slog.Logger    // Optional: structured logger
	Metrics   statsd.Sink     // Optional: metrics sink (StatsD-compatible)
	Notifier  FailureNotifier // Optional: alerting on failed scrapes
}

// ScrapeService runs scrape jobs: one extractor call per job, then one
// fingerprinted event record per valid candidate.
type ScrapeService struct {
	sources   core.EventSourceRepository
	jobs      core.ScrapeJobRepository
	events    core.EventRecordRepository
	extractor core.Extractor
	locker    core.SourceLocker
	cfg       config.ScrapeConfig
	logger    *slog.Logger
	metrics   statsd.Sink
	notifier  FailureNotifier
}

// NewScrapeService constructs a new ScrapeService.
func NewScrapeService(opts ScrapeServiceOptions) (*ScrapeService, error) {
	switch {
	case opts.Sources == nil:
		return nil, errors.New("EventSourceRepository is required")
	case opts.Jobs == nil:
		return nil, errors.New("ScrapeJobRepository is required")
	case opts.Events == nil:
		return nil, errors.New("EventRecordRepository is required")
	case opts.Extractor == nil:
		return nil, errors.New("Extractor is required")
	}

	locker := opts.Locker
	if locker == nil {
		locker = NewLocalSourceLocker()
	}

	cfg := opts.Config
	cfg.Sanitize()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ScrapeService{
		sources:   opts.Sources,
		jobs:      opts.Jobs,
		events:    opts.Events,
		extractor: opts.Extractor,
		locker:    locker,
		cfg:       cfg,
		logger:    logger.With("component", "scrape_service"),
		metrics:   opts.Metrics,
		notifier:  opts.Notifier,
	}, nil
}

// MustNewScrapeService constructs a new ScrapeService and panics on error.
func MustNewScrapeService(opts ScrapeServiceOptions) *ScrapeService {
	svc, err := NewScrapeService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create ScrapeService: %v", err))
	}
	return svc
}

// Run scrapes one source. Extraction failures land the job in ERROR and are
// reported through the outcome, not the error; the error is reserved for a
// missing source, a concurrent run, or a storage failure around the job row.
func (s *ScrapeService) Run(ctx context.Context, sourceID string) (*model.JobOutcome, error) {
	source, err := s.sources.GetByID(ctx, sourceID)
	if err != nil {
		return nil, mapRepoError(err, "get event source")
	}
	return s.runSource(ctx, source)
}

// RunAll scrapes every source under a bounded worker pool. A failing source
// never aborts the others; results follow the source listing order.
func (s *ScrapeService) RunAll(ctx context.Context) ([]model.SourceRunResult, error) {
	sources, err := s.sources.ListAll(ctx)
	if err != nil {
		return nil, mapRepoError(err, "list event sources")
	}

	results := make([]model.SourceRunResult, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for i, source := range sources {
		results[i].SourceID = source.ID
		g.Go(func() error {
			outcome, runErr := s.runSource(gctx, source)
			results[i].Outcome = outcome
			if runErr != nil {
				results[i].Err = runErr
				results[i].Error = runErr.Error()
				s.logger.WarnContext(gctx, "scrape-all: source failed",
					"source_id", source.ID,
					"error", runErr,
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.InfoContext(ctx, "scrape-all completed", "sources", len(sources))
	return results, nil
}

func (s *ScrapeService) runSource(ctx context.Context, source *model.EventSource) (*model.JobOutcome, error) {
	release, acquired, err := s.locker.TryLock(ctx, source.ID)
	if err != nil {
		return nil, fmt.Errorf("acquire scrape lock: %w", err)
	}
	if !acquired {
		s.emitSkipped(source)
		return nil, scrapeInProgress(source.ID)
	}
	defer release()

	job, err := s.jobs.CreateRunning(ctx, source.ID)
	if err != nil {
		if errors.Is(err, model.ErrScrapeInProgress) {
			s.emitSkipped(source)
			return nil, scrapeInProgress(source.ID)
		}
		return nil, mapRepoError(err, "create scrape job")
	}

	start := time.Now()
	log := s.logger.With("source_id", source.ID, "job_id", job.ID)
	log.InfoContext(ctx, "scrape started", "url", source.URL, "strategy", source.ScrapeStrategy)

	result, extractErr := s.extract(ctx, source)
	if extractErr != nil {
		return s.failJob(ctx, log, source, job, start, extractErr)
	}

	// The extraction result is persisted even if the caller goes away now;
	// the job must not end up half-written.
	persistCtx := context.WithoutCancel(ctx)
	outcome := &model.JobOutcome{Results: make([]model.CandidateResult, 0, len(result.Events))}
	for i, candidate := range result.Events {
		res := s.persistCandidate(persistCtx, job.ID, i, candidate)
		if res.OK() {
			outcome.Persisted++
		} else {
			outcome.Failed++
			log.WarnContext(ctx, "candidate event rejected",
				"index", i,
				"name", candidate.Name,
				"error", res.Err,
			)
		}
		outcome.Results = append(outcome.Results, res)
	}

	finished, err := s.finish(ctx, job.ID, model.ScrapeStatusSuccess, successMessage(outcome, result.Message))
	if err != nil {
		return nil, err
	}
	outcome.Job = *finished

	log.InfoContext(ctx, "scrape finished",
		"persisted", outcome.Persisted,
		"failed", outcome.Failed,
		"duration", time.Since(start),
	)
	metrics.EmitScrapeTransition(s.metrics, metrics.ScrapeMetric{
		Domain:     source.Domain,
		Strategy:   string(source.ScrapeStrategy),
		Transition: metrics.TransitionSuccess,
		Result:     metrics.ResultSuccess,
		Persisted:  outcome.Persisted,
		Failed:     outcome.Failed,
		Duration:   time.Since(start),
	})
	return outcome, nil
}

func (s *ScrapeService) extract(ctx context.Context, source *model.EventSource) (*model.ExtractionResult, error) {
	xctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	result, err := s.extractor.Extract(xctx, source.URL, source.ScrapeStrategy)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, apperrors.Extractionf("extractor returned no result")
	}
	return result, nil
}

func (s *ScrapeService) persistCandidate(
	ctx context.Context,
	jobID string,
	index int,
	candidate model.CandidateEvent,
) model.CandidateResult {
	res := model.CandidateResult{Index: index, Name: candidate.Name}

	normalized, err := candidate.Normalize()
	if err != nil {
		res.Err = apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid candidate event")
		res.Error = res.Err.Error()
		return res
	}
	res.Name = normalized.Name

	record, err := s.events.Create(ctx, model.CreateEventRecordParams{
		ScrapeJobID:      jobID,
		EventName:        normalized.Name,
		StartDate:        normalized.StartDate,
		EndDate:          normalized.EndDate,
		Price:            normalized.Price,
		Location:         normalized.Location,
		EventFingerprint: fingerprint.Generate(normalized.Name, normalized.StartDate).String(),
	})
	if err != nil {
		res.Err = apperrors.Persistence(err, "persist event record")
		res.Error = res.Err.Error()
		return res
	}
	res.EventID = record.ID
	return res
}

func (s *ScrapeService) failJob(
	ctx context.Context,
	log *slog.Logger,
	source *model.EventSource,
	job *model.ScrapeJob,
	start time.Time,
	cause error,
) (*model.JobOutcome, error) {
	msg := failureMessage(ctx, cause)
	log.WarnContext(ctx, "scrape failed", "error", cause)

	finished, err := s.finish(ctx, job.ID, model.ScrapeStatusError, msg)
	if err != nil {
		return nil, err
	}

	metrics.EmitScrapeTransition(s.metrics, metrics.ScrapeMetric{
		Domain:     source.Domain,
		Strategy:   string(source.ScrapeStrategy),
		Transition: metrics.TransitionError,
		Result:     metrics.ResultError,
		Duration:   time.Since(start),
		Err:        cause,
	})
	s.notifyFailure(ctx, source, finished, cause)
	return &model.JobOutcome{Job: *finished, Results: []model.CandidateResult{}}, nil
}

func (s *ScrapeService) notifyFailure(
	ctx context.Context,
	source *model.EventSource,
	job *model.ScrapeJob,
	cause error,
) {
	if s.notifier == nil {
		return
	}
	occurredAt := job.CreatedAt
	if job.CompletedAt != nil {
		occurredAt = *job.CompletedAt
	}
	s.notifier.NotifyScrapeFailure(context.WithoutCancel(ctx), notify.ScrapeFailurePayload{
		JobID:      job.ID,
		SourceID:   source.ID,
		SourceURL:  source.URL,
		Domain:     source.Domain,
		Strategy:   string(source.ScrapeStrategy),
		Error:      job.Message,
		ErrorClass: obserrors.Classify(cause),
		OccurredAt: occurredAt,
	})
}

// finish performs the terminal transition on a context detached from the
// caller so that a cancelled run still lands in a terminal state.
func (s *ScrapeService) finish(
	ctx context.Context,
	jobID string,
	status model.ScrapeStatus,
	msg string,
) (*model.ScrapeJob, error) {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), terminalWriteTimeout)
	defer cancel()

	job, err := s.jobs.Finish(wctx, model.FinishScrapeJobParams{ID: jobID, Status: status, Message: msg})
	if err != nil {
		return nil, mapRepoError(err, "finish scrape job")
	}
	return job, nil
}

func (s *ScrapeService) emitSkipped(source *model.EventSource) {
	s.logger.Info("scrape skipped, already in progress", "source_id", source.ID)
	metrics.EmitScrapeTransition(s.metrics, metrics.ScrapeMetric{
		Domain:     source.Domain,
		Strategy:   string(source.ScrapeStrategy),
		Transition: metrics.TransitionSkipped,
		Result:     metrics.ResultNoop,
	})
}

func scrapeInProgress(sourceID string) error {
	return apperrors.Wrapf(model.ErrScrapeInProgress, apperrors.ErrCodeConflict, "source %s", sourceID)
}

func failureMessage(ctx context.Context, err error) string {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return "scrape canceled: " + err.Error()
	}
	return err.Error()
}

func successMessage(outcome *model.JobOutcome, extractorMsg string) string {
	msg := fmt.Sprintf("Parsed %d events (%d failed)", outcome.Persisted, outcome.Failed)
	if extractorMsg != "" {
		msg += ": " + extractorMsg
	}
	return msg
}
