// Package testutil provides testing utilities and helpers for the scrape and diff services.
package testutil

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/target/scrapediff/internal/domain/fingerprint"
	"github.com/target/scrapediff/internal/domain/model"
)

// CandidateBuilder provides a fluent interface for building extractor candidates for testing.
type CandidateBuilder struct {
	c model.CandidateEvent
}

// NewCandidate creates a CandidateBuilder with a valid name and start date.
func NewCandidate(name string) *CandidateBuilder {
	return &CandidateBuilder{
		c: model.CandidateEvent{
			Name:      name,
			StartDate: "2024-05-01T10:00:00Z",
		},
	}
}

// WithStart sets the raw start date text.
func (b *CandidateBuilder) WithStart(start string) *CandidateBuilder {
	b.c.StartDate = start
	return b
}

// WithEnd sets the raw end date text.
func (b *CandidateBuilder) WithEnd(end string) *CandidateBuilder {
	b.c.EndDate = &end
	return b
}

// WithPrice sets a string price.
func (b *CandidateBuilder) WithPrice(price string) *CandidateBuilder {
	raw, _ := json.Marshal(price)
	b.c.Price = raw
	return b
}

// WithLocation sets the raw location JSON.
func (b *CandidateBuilder) WithLocation(loc string) *CandidateBuilder {
	b.c.Location = json.RawMessage(loc)
	return b
}

// Build returns the constructed candidate.
func (b *CandidateBuilder) Build() model.CandidateEvent {
	return b.c
}

// Extraction builds an ExtractionResult from candidates.
func Extraction(message string, candidates ...model.CandidateEvent) *model.ExtractionResult {
	return &model.ExtractionResult{Message: message, Events: candidates}
}

// EventRecord builds a fingerprinted record for reconcile and diff tests.
func EventRecord(jobID, name string, start time.Time) model.EventRecord {
	return model.EventRecord{
		ID:               fmt.Sprintf("%s-%s", jobID, name),
		ScrapeJobID:      jobID,
		EventName:        name,
		StartDate:        start.UTC(),
		Location:         json.RawMessage(`{}`),
		EventFingerprint: fingerprint.Generate(name, start).String(),
	}
}

// ScrapeJob builds a job in the given status.
func ScrapeJob(id, sourceID string, status model.ScrapeStatus, createdAt time.Time) *model.ScrapeJob {
	job := &model.ScrapeJob{
		ID:            id,
		EventSourceID: sourceID,
		Status:        status,
		CreatedAt:     createdAt,
	}
	if status.Terminal() {
		done := createdAt.Add(time.Minute)
		job.CompletedAt = &done
	}
	return job
}

// EventSource builds a generic_ai source.
func EventSource(id, url string) *model.EventSource {
	return &model.EventSource{
		ID:             id,
		URL:            url,
		ScrapeStrategy: model.StrategyGenericAI,
		CreatedAt:      TestTime(),
	}
}
