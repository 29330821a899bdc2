package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/scrapediff/internal/core"
	"github.com/target/scrapediff/internal/domain/model"
	"github.com/target/scrapediff/internal/testutil"
)

func TestDashboardRepo_Counts(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewDashboardRepo(db)
		src := createTestSource(t, db, "https://dash.example.com/events")

		createTestJob(t, db, src.ID, model.ScrapeStatusError)
		job := createTestJob(t, db, src.ID, model.ScrapeStatusSuccess)
		createTestJob(t, db, src.ID, model.ScrapeStatusRunning)

		start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		a := createTestEvent(t, db, job.ID, "A", start)
		b := createTestEvent(t, db, job.ID, "B", start)
		createTestEvent(t, db, job.ID, "C", start)

		_, err := NewDecisionRepo(db).Apply(ctx, core.ApplyDecisionsParams{
			Decisions: model.DecisionSet{AcceptedNew: []string{a.ID}, RejectedNew: []string{b.ID}},
		})
		require.NoError(t, err)

		jobs, err := repo.JobCounts(ctx, src.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ScrapeJobCounts{Running: 1, Success: 1, Error: 1}, jobs)

		events, err := repo.EventCounts(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, model.EventCounts{Total: 3, Pending: 1, Approved: 1, Deleted: 1}, events)

		empty, err := repo.JobCounts(ctx, "bogus")
		require.NoError(t, err)
		assert.Zero(t, empty.Total())
	})
}
