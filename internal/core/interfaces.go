// Package core declares the ports between the scrape/diff services and their adapters.
package core

import (
	"context"
	"time"

	"github.com/target/scrapediff/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// EventSourceRepository defines the interface for event source data operations.
type EventSourceRepository interface {
	Create(ctx context.Context, params model.CreateEventSourceParams) (*model.EventSource, error)
	GetByID(ctx context.Context, id string) (*model.EventSource, error)
	List(ctx context.Context, opts model.EventSourceListOptions) ([]*model.EventSource, error)
	// ListAll returns every source ordered by creation time; used by scrape-all.
	ListAll(ctx context.Context) ([]*model.EventSource, error)
	Update(ctx context.Context, id string, params model.UpdateEventSourceParams) (*model.EventSource, error)
}

// ScrapeJobRepository defines the interface for scrape job data operations.
type ScrapeJobRepository interface {
	// CreateRunning inserts a new job in RUNNING for the source.
	// It returns model.ErrScrapeInProgress when the source already has a RUNNING job.
	CreateRunning(ctx context.Context, sourceID string) (*model.ScrapeJob, error)
	// Finish moves a RUNNING job to SUCCESS or ERROR and stamps completed_at.
	// It returns model.ErrJobAlreadyFinished when the job is no longer RUNNING.
	Finish(ctx context.Context, params model.FinishScrapeJobParams) (*model.ScrapeJob, error)
	GetByID(ctx context.Context, id string) (*model.ScrapeJob, error)
	// List returns jobs of a source, newest first.
	List(ctx context.Context, opts model.ScrapeJobListOptions) ([]*model.ScrapeJob, error)
	// LatestSuccessful returns up to limit SUCCESS jobs of a source, newest first.
	LatestSuccessful(ctx context.Context, sourceID string, limit int) ([]*model.ScrapeJob, error)
}

// EventRecordRepository defines the interface for event record data operations.
type EventRecordRepository interface {
	Create(ctx context.Context, params model.CreateEventRecordParams) (*model.EventRecord, error)
	GetByID(ctx context.Context, id string) (*model.EventRecord, error)
	// ListByJob returns every record of a job in insertion order, regardless of moderation flags.
	ListByJob(ctx context.Context, jobID string) ([]model.EventRecord, error)
	// List returns one page of events across jobs with the total match count.
	List(ctx context.Context, opts model.EventListOptions) (*model.EventList, error)
	Update(ctx context.Context, params model.UpdateEventRecordParams) (*model.EventRecord, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ApplyDecisionsParams groups parameters for DecisionRepository.Apply.
type ApplyDecisionsParams struct {
	// SourceID, when set, restricts every referenced event to jobs of that source.
	SourceID  string
	Decisions model.DecisionSet
}

// DecisionRepository applies moderation decisions.
type DecisionRepository interface {
	// Apply writes every batch in one transaction and returns rows updated per list.
	// Any failure rolls back all batches.
	Apply(ctx context.Context, params ApplyDecisionsParams) (map[model.DecisionList]int, error)
}

// DashboardRepository provides aggregate counts for the source dashboard.
type DashboardRepository interface {
	JobCounts(ctx context.Context, sourceID string) (model.ScrapeJobCounts, error)
	EventCounts(ctx context.Context, jobID string) (model.EventCounts, error)
}

// FailStaleRunningParams groups parameters for ReaperRepository.FailStaleRunningJobs.
type FailStaleRunningParams struct {
	MaxAge    time.Duration
	Message   string
	BatchSize int
}

// ReaperRepository defines the interface for abandoned scrape cleanup.
type ReaperRepository interface {
	// FailStaleRunningJobs marks RUNNING jobs older than MaxAge as ERROR.
	// Processes up to BatchSize jobs per call. Returns the number of jobs failed.
	FailStaleRunningJobs(ctx context.Context, params FailStaleRunningParams) (int64, error)
}

// SourceLocker provides per-source mutual exclusion for scrape runs.
type SourceLocker interface {
	// TryLock acquires the lock for sourceID without waiting.
	// When acquired is false, another run holds the lock. release is non-nil only when acquired.
	TryLock(ctx context.Context, sourceID string) (release func(), acquired bool, err error)
}

// Extractor turns a source page into candidate events.
type Extractor interface {
	Extract(ctx context.Context, url string, strategy model.ScrapeStrategy) (*model.ExtractionResult, error)
}
