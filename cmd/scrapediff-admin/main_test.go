package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/scrapediff/internal/domain/model"
	"github.com/target/scrapediff/internal/migrate"
	"github.com/target/scrapediff/internal/testutil"
)

func TestParseScrapeFlags(t *testing.T) {
	opts, err := parseScrapeFlags([]string{"--source", " src-1 "})
	require.NoError(t, err)
	assert.Equal(t, "src-1", opts.SourceID)
	assert.Equal(t, defaultScrapeTimeout, opts.Timeout)

	opts, err = parseScrapeFlags([]string{"--all", "--json"})
	require.NoError(t, err)
	assert.True(t, opts.All)
	assert.True(t, opts.JSON)

	_, err = parseScrapeFlags(nil)
	require.Error(t, err)

	_, err = parseScrapeFlags([]string{"--all", "--source", "src-1"})
	require.Error(t, err)

	_, err = parseScrapeFlags([]string{"--all", "--timeout", "0s"})
	require.Error(t, err)
}

func TestParseDiffFlags(t *testing.T) {
	_, err := parseDiffFlags(nil)
	require.Error(t, err)

	opts, err := parseDiffFlags([]string{"--source", "src-1"})
	require.NoError(t, err)
	assert.Equal(t, "src-1", opts.SourceID)
}

func TestParseMigrateFlags(t *testing.T) {
	opts, err := parseMigrateFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultMigrationTimeout, opts.Timeout)

	_, err = parseMigrateFlags([]string{"--timeout", "-1s"})
	require.Error(t, err)
}

func TestPrintRunResults(t *testing.T) {
	job := testutil.ScrapeJob("job-1", "src-b", model.ScrapeStatusSuccess, testutil.TestTime())
	job.Message = "Parsed 2 events (0 failed)"

	var buf bytes.Buffer
	require.NoError(t, printRunResults(&buf, []model.SourceRunResult{
		{SourceID: "src-b", Outcome: &model.JobOutcome{Job: *job, Persisted: 2}},
		{SourceID: "src-a", Error: "scrape already in progress for source"},
	}))

	out := buf.String()
	assert.Contains(t, out, "Parsed 2 events (0 failed)")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("src-a")), bytes.Index(buf.Bytes(), []byte("src-b")))
}

func TestPrintDiff(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	latest := testutil.ScrapeJob("job-2", "src-1", model.ScrapeStatusSuccess, testutil.TestTime())
	previous := testutil.ScrapeJob("job-1", "src-1", model.ScrapeStatusSuccess, testutil.TestTime())

	diff := &model.SourceDiff{
		Latest:   *latest,
		Previous: *previous,
		Diff: model.DiffResult{
			NewEvents: []model.EventRecord{testutil.EventRecord(latest.ID, "Car Show", start)},
			ModifiedEvents: []model.ModifiedEvent{{
				Latest: testutil.EventRecord(latest.ID, "Track Day", start),
				Changes: map[string]model.FieldChange{
					model.FieldPrice:   {Old: "$20", New: "$25"},
					model.FieldEndDate: {Old: nil, New: "2024-06-01T17:00:00Z"},
				},
			}},
		},
		Summary: model.DiffSummary{New: 1, Modified: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, printDiff(&buf, diff))
	out := buf.String()
	assert.Contains(t, out, "new=1 modified=1 unchanged=0 removed=0")
	assert.Contains(t, out, "Car Show")
	assert.Contains(t, out, "end_date,price")
}

func TestPrintMigrationStatus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printMigrationStatus(&buf, []migrate.Status{
		{Version: "001", Applied: true},
		{Version: "002", Applied: false},
	}))
	assert.Contains(t, buf.String(), "001")
	assert.Contains(t, buf.String(), "false")
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"migrate", "migrate-status", "scrape", "diff", "seed", "reap"} {
		c, ok := commands()[name]
		require.True(t, ok, name)
		assert.NotNil(t, c.run)
	}
}

func TestRunSeed_RequiresDevMode(t *testing.T) {
	err := runSeed(&commandContext{Ctx: context.Background(), Logger: slog.Default()}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "development mode")
}
