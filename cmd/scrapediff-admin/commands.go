package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/target/scrapediff/internal/bootstrap"
	"github.com/target/scrapediff/internal/data"
	"github.com/target/scrapediff/internal/devseed"
	"github.com/target/scrapediff/internal/domain/model"
	"github.com/target/scrapediff/internal/migrate"
	"github.com/target/scrapediff/internal/service"
	"github.com/target/scrapediff/internal/util"
)

const (
	defaultMigrationTimeout = 5 * time.Minute
	defaultScrapeTimeout    = 30 * time.Minute
	defaultQueryTimeout     = time.Minute
)

type migrateOptions struct {
	Timeout time.Duration
}

type scrapeOptions struct {
	SourceID string
	All      bool
	Timeout  time.Duration
	JSON     bool
}

type diffOptions struct {
	SourceID string
	JSON     bool
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	db, err := openDB(cmdCtx)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx, db)

	cmdCtx.Logger.Info("running database migrations")
	if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
		return fmt.Errorf("run migrations: %w", migrateErr)
	}
	cmdCtx.Logger.Info("migrations completed successfully")
	return nil
}

func runMigrateStatus(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultQueryTimeout)
	defer cancel()

	db, err := openDB(cmdCtx)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx, db)

	statuses, err := migrate.List(ctx, db)
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	return printMigrationStatus(os.Stdout, statuses)
}

func runScrape(cmdCtx *commandContext, args []string) error {
	opts, err := parseScrapeFlags(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	services, cleanup, err := buildServices(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	if opts.All {
		results, runErr := services.Scrapes.RunAll(ctx)
		if runErr != nil {
			return runErr
		}
		if opts.JSON {
			return writeJSON(os.Stdout, results)
		}
		return printRunResults(os.Stdout, results)
	}

	outcome, err := services.Scrapes.Run(ctx, opts.SourceID)
	if err != nil {
		return err
	}
	if opts.JSON {
		return writeJSON(os.Stdout, outcome)
	}
	return printRunResults(os.Stdout, []model.SourceRunResult{{SourceID: opts.SourceID, Outcome: outcome}})
}

func runDiff(cmdCtx *commandContext, args []string) error {
	opts, err := parseDiffFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultQueryTimeout)
	defer cancel()

	services, cleanup, err := buildServices(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	diff, err := services.Diffs.Compute(ctx, opts.SourceID)
	if err != nil {
		return err
	}
	if opts.JSON {
		return writeJSON(os.Stdout, diff)
	}
	return printDiff(os.Stdout, diff)
}

func runReap(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultQueryTimeout)
	defer cancel()

	db, err := openDB(cmdCtx)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx, db)

	reaper, err := service.NewReaperService(service.ReaperServiceOptions{
		Repo:   data.NewScrapeJobRepo(db),
		Config: cmdCtx.Config.Reaper,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	n, err := reaper.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("reap abandoned scrapes: %w", err)
	}
	return writef(os.Stdout, "failed %d abandoned scrape job(s)\n", n)
}

func runSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}
	if !cmdCtx.Config.IsDev {
		return errors.New("seed only runs in development mode (set DEV=true)")
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	db, err := openDB(cmdCtx)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx, db)

	cmdCtx.Logger.Info("ensuring database migrations are current")
	if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
		return fmt.Errorf("run migrations: %w", migrateErr)
	}
	if seedErr := devseed.Run(ctx, devseed.NewServices(db), cmdCtx.Logger); seedErr != nil {
		return fmt.Errorf("seed data: %w", seedErr)
	}
	cmdCtx.Logger.Info("database seeding completed successfully")
	return nil
}

func openDB(cmdCtx *commandContext) (*sql.DB, error) {
	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	return db, nil
}

func closeDB(cmdCtx *commandContext, db *sql.DB) {
	if closeErr := db.Close(); closeErr != nil {
		cmdCtx.Logger.Warn("db close failed", "error", closeErr)
	}
}

// buildServices connects Postgres and, when enabled, Redis so CLI scrapes
// share the server's per-source locks.
func buildServices(cmdCtx *commandContext) (bootstrap.ServiceContainer, func(), error) {
	db, err := openDB(cmdCtx)
	if err != nil {
		return bootstrap.ServiceContainer{}, nil, err
	}
	redisClient, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		closeDB(cmdCtx, db)
		return bootstrap.ServiceContainer{}, nil, fmt.Errorf("connect redis: %w", err)
	}

	cleanup := func() {
		if redisClient != nil {
			if closeErr := redisClient.Close(); closeErr != nil {
				cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
			}
		}
		closeDB(cmdCtx, db)
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cmdCtx.Config,
		DB:          db,
		RedisClient: redisClient,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		cleanup()
		return bootstrap.ServiceContainer{}, nil, fmt.Errorf("build services: %w", err)
	}
	return services, cleanup, nil
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout,
		"Maximum duration to wait for migrations to complete")

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}
	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseScrapeFlags(args []string) (scrapeOptions, error) {
	fs := flag.NewFlagSet("scrape", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := scrapeOptions{}
	fs.StringVar(&opts.SourceID, "source", "", "Event source id to scrape")
	fs.BoolVar(&opts.All, "all", false, "Scrape every event source")
	fs.DurationVar(&opts.Timeout, "timeout", defaultScrapeTimeout, "Maximum duration of the whole command")
	fs.BoolVar(&opts.JSON, "json", false, "Print the raw outcome as JSON")

	if err := fs.Parse(args); err != nil {
		return scrapeOptions{}, err
	}
	opts.SourceID = strings.TrimSpace(opts.SourceID)
	switch {
	case opts.All && opts.SourceID != "":
		return scrapeOptions{}, errors.New("--source and --all are mutually exclusive")
	case !opts.All && opts.SourceID == "":
		return scrapeOptions{}, errors.New("one of --source or --all is required")
	case opts.Timeout <= 0:
		return scrapeOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseDiffFlags(args []string) (diffOptions, error) {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := diffOptions{}
	fs.StringVar(&opts.SourceID, "source", "", "Event source id")
	fs.BoolVar(&opts.JSON, "json", false, "Print the raw diff as JSON")

	if err := fs.Parse(args); err != nil {
		return diffOptions{}, err
	}
	opts.SourceID = strings.TrimSpace(opts.SourceID)
	if opts.SourceID == "" {
		return diffOptions{}, errors.New("--source is required")
	}
	return opts, nil
}

func printMigrationStatus(w io.Writer, statuses []migrate.Status) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "VERSION\tAPPLIED\n"); err != nil {
		return err
	}
	for _, s := range statuses {
		if err := writef(tw, "%s\t%t\n", s.Version, s.Applied); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printRunResults(w io.Writer, results []model.SourceRunResult) error {
	sorted := append([]model.SourceRunResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SourceID < sorted[j].SourceID })

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "SOURCE\tJOB\tSTATUS\tDURATION\tPERSISTED\tFAILED\tMESSAGE\n"); err != nil {
		return err
	}
	for _, res := range sorted {
		if res.Outcome == nil {
			if err := writef(tw, "%s\t-\t-\t-\t0\t0\t%s\n", res.SourceID, res.Error); err != nil {
				return err
			}
			continue
		}
		job := res.Outcome.Job
		if err := writef(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			res.SourceID, job.ID, job.Status, util.FormatJobDuration(job.CreatedAt, job.CompletedAt),
			res.Outcome.Persisted, res.Outcome.Failed, job.Message); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printDiff(w io.Writer, diff *model.SourceDiff) error {
	if err := writef(w, "latest %s (%s) vs previous %s (%s)\n",
		diff.Latest.ID, diff.Latest.CreatedAt.Format(time.RFC3339),
		diff.Previous.ID, diff.Previous.CreatedAt.Format(time.RFC3339)); err != nil {
		return err
	}
	s := diff.Summary
	if err := writef(w, "new=%d modified=%d unchanged=%d removed=%d\n\n",
		s.New, s.Modified, s.Unchanged, s.Removed); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "CHANGE\tEVENT\tSTART\tDETAIL\n"); err != nil {
		return err
	}
	for _, e := range diff.Diff.NewEvents {
		if err := writeDiffRow(tw, "new", e, ""); err != nil {
			return err
		}
	}
	for _, m := range diff.Diff.ModifiedEvents {
		if err := writeDiffRow(tw, "modified", m.Latest, changedFields(m.Changes)); err != nil {
			return err
		}
	}
	for _, e := range diff.Diff.RemovedEvents {
		if err := writeDiffRow(tw, "removed", e, ""); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writeDiffRow(w io.Writer, change string, e model.EventRecord, detail string) error {
	return writef(w, "%s\t%s\t%s\t%s\n", change, e.EventName, e.StartDate.Format(time.RFC3339), detail)
}

func changedFields(changes map[string]model.FieldChange) string {
	fields := make([]string, 0, len(changes))
	for f := range changes {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return strings.Join(fields, ",")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
