// Package reconcile categorizes the events of two scrapes of the same source by fingerprint.
package reconcile

import (
	"time"

	"github.com/target/scrapediff/internal/domain/model"
)

// Categorize compares latest against previous and returns the categorized diff.
//
// Matching is by fingerprint. A matched key is consumed on first use, so when
// latest repeats a fingerprint only the first occurrence matches and later ones
// are new. When previous repeats a fingerprint only the first occurrence is
// matchable and later duplicates are reported as removed.
func Categorize(latest, previous []model.EventRecord) model.DiffResult {
	index := make(map[string]int, len(previous))
	for i, ev := range previous {
		if _, dup := index[ev.EventFingerprint]; !dup {
			index[ev.EventFingerprint] = i
		}
	}
	matched := make([]bool, len(previous))

	var res model.DiffResult
	for _, ev := range latest {
		i, ok := index[ev.EventFingerprint]
		if !ok {
			res.NewEvents = append(res.NewEvents, ev)
			continue
		}
		delete(index, ev.EventFingerprint)
		matched[i] = true

		if changes := Compare(previous[i], ev); len(changes) > 0 {
			res.ModifiedEvents = append(res.ModifiedEvents, model.ModifiedEvent{
				Previous: previous[i],
				Latest:   ev,
				Changes:  changes,
			})
			continue
		}
		res.UnchangedEvents = append(res.UnchangedEvents, ev)
	}

	for i, ev := range previous {
		if !matched[i] {
			res.RemovedEvents = append(res.RemovedEvents, ev)
		}
	}
	return res
}

// Compare returns the change set between two records over name, start, end and price.
// Dates compare by instant; price compares as opaque text where nil and "" differ.
func Compare(previous, latest model.EventRecord) map[string]model.FieldChange {
	changes := make(map[string]model.FieldChange)

	if previous.EventName != latest.EventName {
		changes[model.FieldEventName] = model.FieldChange{Old: previous.EventName, New: latest.EventName}
	}
	if !previous.StartDate.Equal(latest.StartDate) {
		changes[model.FieldStartDate] = model.FieldChange{Old: previous.StartDate, New: latest.StartDate}
	}
	if !sameInstant(previous.EndDate, latest.EndDate) {
		changes[model.FieldEndDate] = model.FieldChange{Old: previous.EndDate, New: latest.EndDate}
	}
	if !samePrice(previous.Price, latest.Price) {
		changes[model.FieldPrice] = model.FieldChange{Old: previous.Price, New: latest.Price}
	}
	return changes
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func samePrice(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
