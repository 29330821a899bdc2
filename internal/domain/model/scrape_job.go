package model

import (
	"errors"
	"time"
	"unicode/utf8"
)

// ScrapeStatus represents the lifecycle state of a scrape job.
type ScrapeStatus string

const (
	// ScrapeStatusPending is a UI label for a source with no job yet; it is never persisted.
	ScrapeStatusPending ScrapeStatus = "PENDING"
	// ScrapeStatusRunning is the entry state of every persisted scrape job.
	ScrapeStatusRunning ScrapeStatus = "RUNNING"
	// ScrapeStatusSuccess indicates the extractor returned and candidates were processed.
	ScrapeStatusSuccess ScrapeStatus = "SUCCESS"
	// ScrapeStatusError indicates the scrape failed before any record was written.
	ScrapeStatusError ScrapeStatus = "ERROR"
)

// MaxScrapeMessageLen bounds the stored status message in characters.
const MaxScrapeMessageLen = 1000

var (
	// ErrScrapeInProgress is returned when a source already has a RUNNING scrape job.
	ErrScrapeInProgress = errors.New("scrape already in progress for source")
	// ErrJobAlreadyFinished is returned when a terminal transition targets a job that is not RUNNING.
	ErrJobAlreadyFinished = errors.New("scrape job already finished")
	// ErrNotEnoughScrapes is returned when a diff is requested for a source with fewer than two successful jobs.
	ErrNotEnoughScrapes = errors.New("at least two successful scrapes are needed to compute a diff")
)

// Valid returns true if the status is one of the known values.
func (s ScrapeStatus) Valid() bool {
	return s == ScrapeStatusPending || s == ScrapeStatusRunning ||
		s == ScrapeStatusSuccess || s == ScrapeStatusError
}

// Terminal returns true for SUCCESS and ERROR.
func (s ScrapeStatus) Terminal() bool {
	return s == ScrapeStatusSuccess || s == ScrapeStatusError
}

// ScrapeJob is one scrape attempt against an event source.
type ScrapeJob struct {
	ID            string       `json:"id"                     db:"id"`
	EventSourceID string       `json:"event_source_id"        db:"event_source_id"`
	Status        ScrapeStatus `json:"status"                 db:"status"`
	Message       string       `json:"message"                db:"message"`
	CreatedAt     time.Time    `json:"created_at"             db:"created_at"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
}

// FinishScrapeJobParams describes the terminal transition of a RUNNING job.
type FinishScrapeJobParams struct {
	ID      string
	Status  ScrapeStatus
	Message string
}

// Validate ensures the transition targets a terminal state.
func (p FinishScrapeJobParams) Validate() error {
	if p.ID == "" {
		return errors.New("job id is required")
	}
	if !p.Status.Terminal() {
		return errors.New("status must be SUCCESS or ERROR")
	}
	return nil
}

// TruncateScrapeMessage limits msg to MaxScrapeMessageLen characters.
func TruncateScrapeMessage(msg string) string {
	if utf8.RuneCountInString(msg) <= MaxScrapeMessageLen {
		return msg
	}
	runes := []rune(msg)
	return string(runes[:MaxScrapeMessageLen])
}

// ScrapeJobCounts holds job counts per status for one source.
type ScrapeJobCounts struct {
	Running int `json:"running"`
	Success int `json:"success"`
	Error   int `json:"error"`
}

// Total returns the number of jobs across all states.
func (c ScrapeJobCounts) Total() int {
	return c.Running + c.Success + c.Error
}

// CandidateResult is the per-candidate outcome of a scrape run.
type CandidateResult struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	EventID string `json:"event_id,omitempty"`
	Err     error  `json:"-"`
	Error   string `json:"error,omitempty"`
}

// OK reports whether the candidate was persisted.
func (r CandidateResult) OK() bool {
	return r.Err == nil
}

// JobOutcome aggregates the result of one scrape run.
type JobOutcome struct {
	Job       ScrapeJob         `json:"job"`
	Results   []CandidateResult `json:"results"`
	Persisted int               `json:"persisted"`
	Failed    int               `json:"failed"`
}

// SourceRunResult is the outcome of one source inside a scrape-all run.
type SourceRunResult struct {
	SourceID string      `json:"source_id"`
	Outcome  *JobOutcome `json:"outcome,omitempty"`
	Err      error       `json:"-"`
	Error    string      `json:"error,omitempty"`
}
