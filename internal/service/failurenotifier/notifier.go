// Package failurenotifier fans scrape failure alerts out to every configured sink.
package failurenotifier

import (
	"context"
	"log/slog"
	"sync"

	apperrors "github.com/target/scrapediff/internal/errors"
	"github.com/target/scrapediff/internal/observability/notify"
)

// SinkRegistration pairs a sink implementation with a human-readable name for logging.
type SinkRegistration struct {
	Name string
	Sink notify.Sink
}

// Options configures the failure notifier service.
type Options struct {
	Logger *slog.Logger
	Sinks  []SinkRegistration
}

// Service dispatches failure events to all registered sinks.
type Service struct {
	logger *slog.Logger
	sinks  []SinkRegistration
}

// NewService constructs a failure notifier. Nil sinks are dropped.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "failure_notifier")
	}

	var sinks []SinkRegistration
	for _, entry := range opts.Sinks {
		if entry.Sink == nil {
			continue
		}
		name := entry.Name
		if name == "" {
			name = "sink"
		}
		sinks = append(sinks, SinkRegistration{Name: name, Sink: entry.Sink})
	}

	return &Service{logger: logger, sinks: sinks}
}

// NotifyScrapeFailure delivers the payload to all sinks concurrently and
// waits for them. Canceled scrapes are operator-initiated and not alerted on.
func (s *Service) NotifyScrapeFailure(ctx context.Context, payload notify.ScrapeFailurePayload) {
	if len(s.sinks) == 0 {
		return
	}

	if payload.ErrorClass == string(apperrors.ErrCodeCanceled) {
		s.logger.DebugContext(ctx, "skipping notification for canceled scrape",
			"job_id", payload.JobID,
			"source_id", payload.SourceID,
		)
		return
	}

	if payload.Severity == "" {
		payload.Severity = notify.SeverityCritical
	}

	var wg sync.WaitGroup
	for _, entry := range s.sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := entry.Sink.SendScrapeFailure(ctx, payload); err != nil {
				s.logger.ErrorContext(ctx, "failure notifier delivery error",
					"sink", entry.Name,
					"job_id", payload.JobID,
					"source_id", payload.SourceID,
					"error", err,
				)
			}
		}()
	}
	wg.Wait()
}

// Enabled reports whether the notifier has any active sinks.
func (s *Service) Enabled() bool {
	return len(s.sinks) > 0
}
