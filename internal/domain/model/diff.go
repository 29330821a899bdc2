package model

// Field names used as keys in a ModifiedEvent change set.
const (
	FieldEventName = "event_name"
	FieldStartDate = "start_date"
	FieldEndDate   = "end_date"
	FieldPrice     = "price"
)

// FieldChange records the previous and latest value of one compared field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ModifiedEvent pairs two records sharing a fingerprint whose compared fields differ.
type ModifiedEvent struct {
	Previous EventRecord            `json:"previous"`
	Latest   EventRecord            `json:"latest"`
	Changes  map[string]FieldChange `json:"changes"`
}

// DiffResult is the categorized comparison of two scrape jobs' events.
// New, modified and unchanged follow the latest order; removed follows the previous order.
type DiffResult struct {
	NewEvents       []EventRecord   `json:"new_events"`
	ModifiedEvents  []ModifiedEvent `json:"modified_events"`
	UnchangedEvents []EventRecord   `json:"unchanged_events"`
	RemovedEvents   []EventRecord   `json:"removed_events"`
}

// DiffSummary holds the size of each diff category.
type DiffSummary struct {
	New       int `json:"new"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
	Removed   int `json:"removed"`
}

// Summary counts the entries of each category.
func (d DiffResult) Summary() DiffSummary {
	return DiffSummary{
		New:       len(d.NewEvents),
		Modified:  len(d.ModifiedEvents),
		Unchanged: len(d.UnchangedEvents),
		Removed:   len(d.RemovedEvents),
	}
}

// SourceDiff is a computed diff between two successful scrapes of one source.
type SourceDiff struct {
	Source   *EventSource `json:"source,omitempty"`
	Latest   ScrapeJob    `json:"latest"`
	Previous ScrapeJob    `json:"previous"`
	Diff     DiffResult   `json:"diff"`
	Summary  DiffSummary  `json:"summary"`
}

// SourceDashboard summarizes a source for the moderation overview.
type SourceDashboard struct {
	Source       EventSource     `json:"source"`
	Jobs         ScrapeJobCounts `json:"jobs"`
	LatestJob    *ScrapeJob      `json:"latest_job,omitempty"`
	LatestEvents EventCounts     `json:"latest_events"`
}
