// Package notify defines the payload and sink contract for scrape failure alerts.
package notify

import (
	"context"
	"time"
)

// Severity constants recognised by downstream sinks.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

// ScrapeFailurePayload captures what we emit when a scrape job lands in ERROR.
type ScrapeFailurePayload struct {
	JobID      string
	SourceID   string
	SourceURL  string
	Domain     string
	Strategy   string
	Error      string
	ErrorClass string
	Severity   string
	OccurredAt time.Time
	Metadata   map[string]string
}

// Sink describes a destination capable of consuming scrape failure notifications.
type Sink interface {
	SendScrapeFailure(ctx context.Context, payload ScrapeFailurePayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload ScrapeFailurePayload) error

// SendScrapeFailure implements the Sink interface.
func (f SinkFunc) SendScrapeFailure(ctx context.Context, payload ScrapeFailurePayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
