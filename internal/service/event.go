package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/scrapediff/internal/core"
	"github.com/target/scrapediff/internal/domain/fingerprint"
	"github.com/target/scrapediff/internal/domain/model"
	apperrors "github.com/target/scrapediff/internal/errors"
)

// EventServiceOptions groups dependencies for EventService.
type EventServiceOptions struct {
	Events  core.EventRecordRepository // Required
	Sources core.EventSourceRepository // Optional: enables not-found checks on source filters
	Logger  *slog.Logger               // Optional: structured logger
}

// EventService browses, edits and deletes event records.
type EventService struct {
	events  core.EventRecordRepository
	sources core.EventSourceRepository
	logger  *slog.Logger
}

// NewEventService constructs a new EventService.
func NewEventService(opts EventServiceOptions) (*EventService, error) {
	if opts.Events == nil {
		return nil, errors.New("EventRecordRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{
		events:  opts.Events,
		sources: opts.Sources,
		logger:  logger.With("component", "event_service"),
	}, nil
}

// MustNewEventService constructs a new EventService and panics on error.
func MustNewEventService(opts EventServiceOptions) *EventService {
	svc, err := NewEventService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create EventService: %v", err))
	}
	return svc
}

// Get returns an event record by id.
func (s *EventService) Get(ctx context.Context, id string) (*model.EventRecord, error) {
	rec, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "get event")
	}
	return rec, nil
}

// List browses events across scrapes. A source filter naming an unknown
// source is reported as not found when a source repository is configured.
func (s *EventService) List(ctx context.Context, opts model.EventListOptions) (*model.EventList, error) {
	if opts.StartFrom != nil && opts.StartTo != nil && opts.StartTo.Before(*opts.StartFrom) {
		return nil, apperrors.ValidationField("start_to", "start_to must not be before start_from")
	}
	if opts.SourceID != "" && s.sources != nil {
		if _, err := s.sources.GetByID(ctx, opts.SourceID); err != nil {
			return nil, mapRepoError(err, "get event source")
		}
	}
	list, err := s.events.List(ctx, opts)
	if err != nil {
		return nil, mapRepoError(err, "list events")
	}
	return list, nil
}

// Edit replaces the editable fields of an event. The fingerprint is
// recomputed from the new name and start date; moderation flags are kept.
func (s *EventService) Edit(ctx context.Context, id string, req model.UpdateEventRequest) (*model.EventRecord, error) {
	normalized, err := req.Normalize()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid event")
	}

	rec, err := s.events.Update(ctx, model.UpdateEventRecordParams{
		ID:               id,
		EventName:        normalized.Name,
		StartDate:        normalized.StartDate,
		EndDate:          normalized.EndDate,
		Price:            normalized.Price,
		Location:         normalized.Location,
		EventFingerprint: fingerprint.Generate(normalized.Name, normalized.StartDate).String(),
	})
	if err != nil {
		return nil, mapRepoError(err, "update event")
	}
	s.logger.InfoContext(ctx, "event edited", "event_id", id, "job_id", rec.ScrapeJobID)
	return rec, nil
}

// Delete hard-deletes an event record.
func (s *EventService) Delete(ctx context.Context, id string) error {
	deleted, err := s.events.Delete(ctx, id)
	if err != nil {
		return mapRepoError(err, "delete event")
	}
	if !deleted {
		return apperrors.NotFoundf("event %s not found", id)
	}
	s.logger.InfoContext(ctx, "event deleted", "event_id", id)
	return nil
}
