// Package scheduler runs periodic scrape-all passes on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/target/scrapediff/config"
	"github.com/target/scrapediff/internal/domain/model"
	obserrors "github.com/target/scrapediff/internal/observability/errors"
	"github.com/target/scrapediff/internal/observability/metrics"
	"github.com/target/scrapediff/internal/observability/statsd"
)

// ScrapeAller runs one scrape pass over every source.
type ScrapeAller interface {
	RunAll(ctx context.Context) ([]model.SourceRunResult, error)
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Scraper ScrapeAller            // Required
	Config  config.SchedulerConfig // Required: Spec must parse
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// Runner fires ScrapeAller.RunAll on the configured cron spec. Overlapping
// passes are skipped rather than queued.
type Runner struct {
	scraper    ScrapeAller
	spec       string
	runOnStart bool
	logger     *slog.Logger
	metrics    statsd.Sink
	cron       *cron.Cron
	chain      cron.Chain
}

// NewRunner creates a new scheduler runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Scraper == nil {
		return nil, errors.New("scraper is required")
	}
	if _, err := cron.ParseStandard(opts.Config.Spec); err != nil {
		return nil, fmt.Errorf("invalid scheduler spec %q: %w", opts.Config.Spec, err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "scheduler")

	cl := cronLogger{l: logger}
	return &Runner{
		scraper:    opts.Scraper,
		spec:       opts.Config.Spec,
		runOnStart: opts.Config.RunOnStart,
		logger:     logger,
		metrics:    opts.Metrics,
		cron:       cron.New(cron.WithLogger(cl)),
		chain:      cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	}, nil
}

// Run registers the scrape-all entry, starts the cron and blocks until ctx is
// cancelled. In-flight passes, including the one on start, are waited for before returning.
func (r *Runner) Run(ctx context.Context) error {
	// The start-up pass shares the wrapped job so SkipIfStillRunning covers it too.
	job := r.chain.Then(cron.FuncJob(func() { r.tick(ctx) }))
	if _, err := r.cron.AddJob(r.spec, job); err != nil {
		return fmt.Errorf("register scrape-all entry: %w", err)
	}

	r.cron.Start()
	r.logger.InfoContext(ctx, "scheduler started", "spec", r.spec, "run_on_start", r.runOnStart)

	var startup sync.WaitGroup
	if r.runOnStart {
		startup.Add(1)
		go func() {
			defer startup.Done()
			job.Run()
		}()
	}

	<-ctx.Done()
	stopped := r.cron.Stop()
	<-stopped.Done()
	startup.Wait()
	r.logger.InfoContext(ctx, "scheduler stopped", "reason", ctx.Err())

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

func (r *Runner) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	results, err := r.scraper.RunAll(ctx)
	elapsed := time.Since(start)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	r.emitTickMetrics(len(results), failed, elapsed, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "scrape-all pass failed", "error", err)
		return
	}
	r.logger.InfoContext(ctx, "scrape-all pass complete",
		"sources", len(results),
		"failed", failed,
		"duration", elapsed,
	)
}

func (r *Runner) emitTickMetrics(sources, failed int, elapsed time.Duration, err error) {
	if r.metrics == nil {
		return
	}

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	} else if sources == 0 {
		result = metrics.ResultNoop
	}

	tags := map[string]string{"result": result}
	if err != nil {
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}

	r.metrics.Count("scheduler.tick", 1, tags)
	if sources > 0 {
		r.metrics.Count("scheduler.sources_scraped", int64(sources), metrics.CloneTags(tags))
	}
	if failed > 0 {
		r.metrics.Count("scheduler.sources_failed", int64(failed), metrics.CloneTags(tags))
	}
	if elapsed > 0 {
		r.metrics.Timing("scheduler.tick_duration", elapsed, metrics.CloneTags(tags))
	}
	if err == nil {
		r.metrics.Gauge("scheduler.last_success_epoch", float64(time.Now().Unix()), nil)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct{ l *slog.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
