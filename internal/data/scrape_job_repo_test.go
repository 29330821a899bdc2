package data

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/scrapediff/internal/core"
	"github.com/target/scrapediff/internal/domain/model"
	"github.com/target/scrapediff/internal/testutil"
)

func TestScrapeJobRepo_Lifecycle(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewScrapeJobRepo(db)
		ctx := context.Background()
		src := createTestSource(t, db, "https://jobs.example.com/events")

		job, err := repo.CreateRunning(ctx, src.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ScrapeStatusRunning, job.Status)
		assert.Nil(t, job.CompletedAt)

		// Second RUNNING job for the same source trips the partial unique index.
		_, err = repo.CreateRunning(ctx, src.ID)
		require.ErrorIs(t, err, model.ErrScrapeInProgress)

		done, err := repo.Finish(ctx, model.FinishScrapeJobParams{
			ID:      job.ID,
			Status:  model.ScrapeStatusSuccess,
			Message: "Parsed 3 events",
		})
		require.NoError(t, err)
		assert.Equal(t, model.ScrapeStatusSuccess, done.Status)
		require.NotNil(t, done.CompletedAt)

		_, err = repo.Finish(ctx, model.FinishScrapeJobParams{ID: job.ID, Status: model.ScrapeStatusError})
		require.ErrorIs(t, err, model.ErrJobAlreadyFinished)

		_, err = repo.Finish(ctx, model.FinishScrapeJobParams{
			ID:     "00000000-0000-0000-0000-000000000000",
			Status: model.ScrapeStatusError,
		})
		require.ErrorIs(t, err, ErrScrapeJobNotFound)

		// Source is free again once the job is terminal.
		next, err := repo.CreateRunning(ctx, src.ID)
		require.NoError(t, err)
		_, err = repo.Finish(ctx, model.FinishScrapeJobParams{
			ID:      next.ID,
			Status:  model.ScrapeStatusError,
			Message: strings.Repeat("x", 1500),
		})
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, next.ID)
		require.NoError(t, err)
		assert.Len(t, got.Message, model.MaxScrapeMessageLen)
	})
}

func TestScrapeJobRepo_CreateRunning_UnknownSource(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewScrapeJobRepo(db)
		_, err := repo.CreateRunning(context.Background(), "00000000-0000-0000-0000-000000000000")
		require.ErrorIs(t, err, ErrEventSourceNotFound)
	})
}

func TestScrapeJobRepo_ListAndLatestSuccessful(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		clock := NewFixedTimeProvider(testutil.TestTime())
		repo := NewScrapeJobRepoWithTimeProvider(db, clock)
		ctx := context.Background()
		src := createTestSource(t, db, "https://history.example.com/events")

		statuses := []model.ScrapeStatus{
			model.ScrapeStatusSuccess,
			model.ScrapeStatusError,
			model.ScrapeStatusSuccess,
			model.ScrapeStatusSuccess,
		}
		ids := make([]string, 0, len(statuses))
		for _, st := range statuses {
			job, err := repo.CreateRunning(ctx, src.ID)
			require.NoError(t, err)
			_, err = repo.Finish(ctx, model.FinishScrapeJobParams{ID: job.ID, Status: st})
			require.NoError(t, err)
			ids = append(ids, job.ID)
			clock.AddTime(time.Minute)
		}

		latest, err := repo.LatestSuccessful(ctx, src.ID, 2)
		require.NoError(t, err)
		require.Len(t, latest, 2)
		assert.Equal(t, ids[3], latest[0].ID)
		assert.Equal(t, ids[2], latest[1].ID)

		all, err := repo.List(ctx, model.ScrapeJobListOptions{SourceID: src.ID})
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, ids[3], all[0].ID)

		errStatus := model.ScrapeStatusError
		failed, err := repo.List(ctx, model.ScrapeJobListOptions{SourceID: src.ID, Status: &errStatus})
		require.NoError(t, err)
		require.Len(t, failed, 1)
		assert.Equal(t, ids[1], failed[0].ID)
	})
}

func TestScrapeJobRepo_FailStaleRunningJobs(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		clock := NewFixedTimeProvider(testutil.TestTime())
		repo := NewScrapeJobRepoWithTimeProvider(db, clock)
		ctx := context.Background()

		stale := createTestSource(t, db, "https://stale.example.com/events")
		fresh := createTestSource(t, db, "https://fresh.example.com/events")

		staleJob, err := repo.CreateRunning(ctx, stale.ID)
		require.NoError(t, err)
		clock.AddTime(time.Hour)
		freshJob, err := repo.CreateRunning(ctx, fresh.ID)
		require.NoError(t, err)
		clock.AddTime(time.Minute)

		n, err := repo.FailStaleRunningJobs(ctx, core.FailStaleRunningParams{
			MaxAge:    30 * time.Minute,
			Message:   "scrape abandoned",
			BatchSize: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := repo.GetByID(ctx, staleJob.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ScrapeStatusError, got.Status)
		assert.Equal(t, "scrape abandoned", got.Message)
		require.NotNil(t, got.CompletedAt)

		got, err = repo.GetByID(ctx, freshJob.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ScrapeStatusRunning, got.Status)

		_, err = repo.FailStaleRunningJobs(ctx, core.FailStaleRunningParams{})
		require.Error(t, err)
	})
}
