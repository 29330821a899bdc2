package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/scrapediff/internal/domain/fingerprint"
	"github.com/target/scrapediff/internal/domain/model"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func record(id, name string, start time.Time) model.EventRecord {
	return model.EventRecord{
		ID:               id,
		EventName:        name,
		StartDate:        start,
		EventFingerprint: fingerprint.Generate(name, start).String(),
	}
}

var may1 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func sampleSet(prefix string) []model.EventRecord {
	return []model.EventRecord{
		record(prefix+"-1", "Track Day", may1),
		record(prefix+"-2", "Jazz Night", may1.Add(48*time.Hour)),
		record(prefix+"-3", "Farmers Market", may1.Add(72*time.Hour)),
	}
}

func ids(events []model.EventRecord) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestCategorize_IdenticalSets(t *testing.T) {
	a := sampleSet("a")

	got := Categorize(a, a)

	assert.Empty(t, got.NewEvents)
	assert.Empty(t, got.ModifiedEvents)
	assert.Empty(t, got.RemovedEvents)
	assert.Equal(t, a, got.UnchangedEvents)
}

func TestCategorize_EmptyPrevious(t *testing.T) {
	a := sampleSet("a")

	got := Categorize(a, nil)

	assert.Equal(t, a, got.NewEvents)
	assert.Empty(t, got.ModifiedEvents)
	assert.Empty(t, got.UnchangedEvents)
	assert.Empty(t, got.RemovedEvents)
}

func TestCategorize_EmptyLatest(t *testing.T) {
	a := sampleSet("a")

	got := Categorize(nil, a)

	assert.Equal(t, a, got.RemovedEvents)
	assert.Empty(t, got.NewEvents)
	assert.Empty(t, got.ModifiedEvents)
	assert.Empty(t, got.UnchangedEvents)
}

func TestCategorize_BothEmpty(t *testing.T) {
	got := Categorize(nil, nil)
	assert.Equal(t, model.DiffSummary{}, got.Summary())
}

func TestCategorize_PriceChangeOnly(t *testing.T) {
	prev := record("p", "Track Day", may1)
	prev.Price = strPtr("$40")
	latest := record("l", "Track Day", may1)
	latest.Price = strPtr("$50")

	got := Categorize([]model.EventRecord{latest}, []model.EventRecord{prev})

	require.Len(t, got.ModifiedEvents, 1)
	mod := got.ModifiedEvents[0]
	assert.Equal(t, "p", mod.Previous.ID)
	assert.Equal(t, "l", mod.Latest.ID)
	require.Len(t, mod.Changes, 1)
	change, ok := mod.Changes[model.FieldPrice]
	require.True(t, ok)
	assert.Equal(t, "$40", *change.Old.(*string))
	assert.Equal(t, "$50", *change.New.(*string))
	assert.Empty(t, got.NewEvents)
	assert.Empty(t, got.UnchangedEvents)
	assert.Empty(t, got.RemovedEvents)
}

func TestCategorize_MixedCategoriesPreserveOrder(t *testing.T) {
	prev := []model.EventRecord{
		record("p1", "Track Day", may1),
		record("p2", "Jazz Night", may1.Add(48*time.Hour)),
		record("p3", "Old Fair", may1.Add(24*time.Hour)),
		record("p4", "Closed Gallery", may1.Add(96*time.Hour)),
	}
	modified := record("l2", "Jazz Night", may1.Add(48*time.Hour))
	modified.EndDate = timePtr(may1.Add(50 * time.Hour))
	latest := []model.EventRecord{
		record("l0", "Brand New", may1.Add(5*time.Hour)),
		modified,
		record("l1", "Track Day", may1),
		record("l9", "Another New", may1.Add(6*time.Hour)),
	}

	got := Categorize(latest, prev)

	assert.Equal(t, []string{"l0", "l9"}, ids(got.NewEvents))
	assert.Equal(t, []string{"l1"}, ids(got.UnchangedEvents))
	assert.Equal(t, []string{"p3", "p4"}, ids(got.RemovedEvents))
	require.Len(t, got.ModifiedEvents, 1)
	assert.Contains(t, got.ModifiedEvents[0].Changes, model.FieldEndDate)
	assert.Equal(t, model.DiffSummary{New: 2, Modified: 1, Unchanged: 1, Removed: 2}, got.Summary())
}

func TestCategorize_DuplicateLatestFirstOccurrenceWins(t *testing.T) {
	prev := []model.EventRecord{record("p1", "Track Day", may1)}
	latest := []model.EventRecord{
		record("l1", "Track Day", may1),
		record("l2", "Track Day", may1),
	}

	got := Categorize(latest, prev)

	assert.Equal(t, []string{"l1"}, ids(got.UnchangedEvents))
	assert.Equal(t, []string{"l2"}, ids(got.NewEvents))
	assert.Empty(t, got.RemovedEvents)
}

func TestCategorize_DuplicatePreviousReportedRemoved(t *testing.T) {
	prev := []model.EventRecord{
		record("p1", "Track Day", may1),
		record("p2", "Track Day", may1),
	}
	latest := []model.EventRecord{record("l1", "Track Day", may1)}

	got := Categorize(latest, prev)

	assert.Equal(t, []string{"l1"}, ids(got.UnchangedEvents))
	assert.Equal(t, []string{"p2"}, ids(got.RemovedEvents))
}

func TestCompare(t *testing.T) {
	base := record("a", "Track Day", may1)

	t.Run("equal instants in different zones", func(t *testing.T) {
		other := base
		other.StartDate = may1.In(time.FixedZone("CEST", 2*60*60))
		other.EndDate = timePtr(may1.Add(time.Hour).In(time.FixedZone("X", -3*60*60)))
		prev := base
		prev.EndDate = timePtr(may1.Add(time.Hour))
		assert.Empty(t, Compare(prev, other))
	})

	t.Run("nil and empty price differ", func(t *testing.T) {
		withEmpty := base
		withEmpty.Price = strPtr("")
		changes := Compare(base, withEmpty)
		require.Contains(t, changes, model.FieldPrice)
		assert.Nil(t, changes[model.FieldPrice].Old)
	})

	t.Run("end date added", func(t *testing.T) {
		withEnd := base
		withEnd.EndDate = timePtr(may1.Add(2 * time.Hour))
		changes := Compare(base, withEnd)
		assert.Len(t, changes, 1)
		assert.Contains(t, changes, model.FieldEndDate)
	})

	t.Run("name and start", func(t *testing.T) {
		other := base
		other.EventName = "Track Day (Rain Date)"
		other.StartDate = may1.Add(24 * time.Hour)
		changes := Compare(base, other)
		assert.Contains(t, changes, model.FieldEventName)
		assert.Contains(t, changes, model.FieldStartDate)
	})

	t.Run("moderation flags are not compared", func(t *testing.T) {
		other := base
		other.IsApproved = true
		other.Location = []byte(`{"venue":"elsewhere"}`)
		assert.Empty(t, Compare(base, other))
	})
}
