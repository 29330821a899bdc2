package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/scrapediff/internal/domain/fingerprint"
	"github.com/target/scrapediff/internal/domain/model"
	"github.com/target/scrapediff/internal/testutil"
)

func createTestJob(t *testing.T, db *sql.DB, sourceID string, status model.ScrapeStatus) *model.ScrapeJob {
	t.Helper()
	repo := NewScrapeJobRepo(db)
	ctx := context.Background()
	job, err := repo.CreateRunning(ctx, sourceID)
	require.NoError(t, err)
	if status.Terminal() {
		job, err = repo.Finish(ctx, model.FinishScrapeJobParams{ID: job.ID, Status: status})
		require.NoError(t, err)
	}
	return job
}

func createTestEvent(t *testing.T, db *sql.DB, jobID, name string, start time.Time) *model.EventRecord {
	t.Helper()
	rec, err := NewEventRecordRepo(db).Create(context.Background(), model.CreateEventRecordParams{
		ScrapeJobID:      jobID,
		EventName:        name,
		StartDate:        start,
		EventFingerprint: fingerprint.Generate(name, start).String(),
	})
	require.NoError(t, err)
	return rec
}

func TestEventRecordRepo_CreateAndListByJob(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewEventRecordRepo(db)
		ctx := context.Background()
		src := createTestSource(t, db, "https://records.example.com/events")
		job := createTestJob(t, db, src.ID, model.ScrapeStatusRunning)

		start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		price := "$25"
		end := start.Add(2 * time.Hour)

		first, err := repo.Create(ctx, model.CreateEventRecordParams{
			ScrapeJobID:      job.ID,
			EventName:        "Track Day",
			StartDate:        start,
			EndDate:          &end,
			Price:            &price,
			Location:         json.RawMessage(`{"city":"Austin"}`),
			EventFingerprint: fingerprint.Generate("Track Day", start).String(),
		})
		require.NoError(t, err)
		assert.False(t, first.IsApproved)
		assert.False(t, first.IsDeleted)
		assert.JSONEq(t, `{"city":"Austin"}`, string(first.Location))

		// Duplicates within a job are stored, not merged.
		createTestEvent(t, db, job.ID, "Zebra Walk", start)
		createTestEvent(t, db, job.ID, "Apple Fair", start)
		createTestEvent(t, db, job.ID, "Apple Fair", start)

		records, err := repo.ListByJob(ctx, job.ID)
		require.NoError(t, err)
		require.Len(t, records, 4)
		names := []string{records[0].EventName, records[1].EventName, records[2].EventName, records[3].EventName}
		assert.Equal(t, []string{"Track Day", "Zebra Walk", "Apple Fair", "Apple Fair"}, names)
		assert.JSONEq(t, `{}`, string(records[1].Location))
		require.NotNil(t, records[0].Price)
		assert.Equal(t, "$25", *records[0].Price)
		assert.Nil(t, records[1].Price)

		_, err = repo.Create(ctx, model.CreateEventRecordParams{
			ScrapeJobID:      "00000000-0000-0000-0000-000000000000",
			EventName:        "Orphan",
			StartDate:        start,
			EventFingerprint: fingerprint.Generate("Orphan", start).String(),
		})
		require.ErrorIs(t, err, ErrScrapeJobNotFound)
	})
}

func TestEventRecordRepo_UpdateAndDelete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewEventRecordRepo(db)
		ctx := context.Background()
		src := createTestSource(t, db, "https://edit.example.com/events")
		job := createTestJob(t, db, src.ID, model.ScrapeStatusSuccess)
		start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		rec := createTestEvent(t, db, job.ID, "Track Day", start)

		moved := start.Add(24 * time.Hour)
		updated, err := repo.Update(ctx, model.UpdateEventRecordParams{
			ID:               rec.ID,
			EventName:        "Track Day",
			StartDate:        moved,
			Location:         json.RawMessage(`{"venue":"COTA"}`),
			EventFingerprint: fingerprint.Generate("Track Day", moved).String(),
		})
		require.NoError(t, err)
		assert.True(t, updated.StartDate.Equal(moved))
		assert.Equal(t, fingerprint.Generate("Track Day", moved).String(), updated.EventFingerprint)
		assert.NotEqual(t, rec.EventFingerprint, updated.EventFingerprint)

		_, err = repo.Update(ctx, model.UpdateEventRecordParams{ID: "not-a-uuid"})
		require.ErrorIs(t, err, ErrEventNotFound)

		deleted, err := repo.Delete(ctx, rec.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, rec.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = repo.GetByID(ctx, rec.ID)
		require.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestEventRecordRepo_List(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewEventRecordRepo(db)
		ctx := context.Background()
		day := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

		src := createTestSource(t, db, "https://browse.example.com/events")
		other := createTestSource(t, db, "https://other.example.com/events")
		oldJob := createTestJob(t, db, src.ID, model.ScrapeStatusSuccess)
		newJob := createTestJob(t, db, src.ID, model.ScrapeStatusSuccess)
		otherJob := createTestJob(t, db, other.ID, model.ScrapeStatusSuccess)

		pending := createTestEvent(t, db, oldJob.ID, "Night Market", day)
		approved := createTestEvent(t, db, newJob.ID, "Night Market 100%", day.AddDate(0, 0, 1))
		deleted := createTestEvent(t, db, newJob.ID, "Car Show", day.AddDate(0, 0, 2))
		createTestEvent(t, db, otherJob.ID, "Night Market", day)

		_, err := db.ExecContext(ctx, `UPDATE events SET is_approved = true WHERE id = $1`, approved.ID)
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, `UPDATE events SET is_approved = true, is_deleted = true WHERE id = $1`, deleted.ID)
		require.NoError(t, err)

		all, err := repo.List(ctx, model.EventListOptions{SourceID: src.ID})
		require.NoError(t, err)
		assert.Equal(t, 3, all.Total)
		require.Len(t, all.Events, 3)
		assert.Equal(t, deleted.ID, all.Events[0].ID, "newest start date first")

		state := model.ModerationApproved
		list, err := repo.List(ctx, model.EventListOptions{SourceID: src.ID, State: &state})
		require.NoError(t, err)
		require.Len(t, list.Events, 1)
		assert.Equal(t, approved.ID, list.Events[0].ID)

		state = model.ModerationPending
		list, err = repo.List(ctx, model.EventListOptions{SourceID: src.ID, State: &state})
		require.NoError(t, err)
		require.Len(t, list.Events, 1)
		assert.Equal(t, pending.ID, list.Events[0].ID)

		list, err = repo.List(ctx, model.EventListOptions{Search: "night market"})
		require.NoError(t, err)
		assert.Equal(t, 3, list.Total, "search spans sources and ignores case")

		list, err = repo.List(ctx, model.EventListOptions{Search: "100%"})
		require.NoError(t, err)
		assert.Equal(t, 1, list.Total, "wildcards in the search match literally")

		from, to := day.Add(time.Hour), day.AddDate(0, 0, 1)
		list, err = repo.List(ctx, model.EventListOptions{StartFrom: &from, StartTo: &to})
		require.NoError(t, err)
		require.Len(t, list.Events, 1)
		assert.Equal(t, approved.ID, list.Events[0].ID)

		page, err := repo.List(ctx, model.EventListOptions{SourceID: src.ID, Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
		require.Len(t, page.Events, 1)
		assert.Equal(t, approved.ID, page.Events[0].ID)

		empty, err := repo.List(ctx, model.EventListOptions{SourceID: "not-a-uuid"})
		require.NoError(t, err)
		assert.Empty(t, empty.Events)
	})
}
