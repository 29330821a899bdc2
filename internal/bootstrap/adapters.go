package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/target/scrapediff/config"
	"github.com/target/scrapediff/internal/adapters/reaper"
	schedrunner "github.com/target/scrapediff/internal/adapters/scheduler"
	"github.com/target/scrapediff/internal/observability/statsd"
)

// SchedulerConfig contains configuration for the scrape scheduler.
type SchedulerConfig struct {
	Scraper schedrunner.ScrapeAller
	Config  config.SchedulerConfig
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// RunScheduler starts the cron-driven scrape-all scheduler.
func RunScheduler(ctx context.Context, cfg SchedulerConfig) error {
	runner, err := schedrunner.NewRunner(schedrunner.RunnerOptions{
		Scraper: cfg.Scraper,
		Config:  cfg.Config,
		Logger:  cfg.Logger,
		Metrics: cfg.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create scheduler runner: %w", err)
	}

	return runner.Run(ctx)
}

// ReaperConfig contains configuration for reaper.
type ReaperConfig struct {
	DB      *sql.DB
	Logger  *slog.Logger
	Config  config.ReaperConfig
	Metrics statsd.Sink
}

// RunReaper starts the reaper service.
func RunReaper(ctx context.Context, cfg ReaperConfig) error {
	runner, err := reaper.NewRunner(reaper.RunnerOptions{
		DB:      cfg.DB,
		Config:  cfg.Config,
		Logger:  cfg.Logger,
		Metrics: cfg.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create reaper runner: %w", err)
	}

	return runner.Run(ctx)
}
