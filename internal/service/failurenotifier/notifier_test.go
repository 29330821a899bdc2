package failurenotifier

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/scrapediff/internal/observability/notify"
)

type captureSink struct {
	mu       sync.Mutex
	received []notify.ScrapeFailurePayload
}

func (c *captureSink) SendScrapeFailure(_ context.Context, payload notify.ScrapeFailurePayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received = append(c.received, payload)
	return nil
}

func TestNotifyScrapeFailure_FansOut(t *testing.T) {
	first, second := &captureSink{}, &captureSink{}
	svc := NewService(Options{Sinks: []SinkRegistration{
		{Name: "first", Sink: first},
		{Sink: second},
		{Name: "nil"},
	}})
	require.True(t, svc.Enabled())

	svc.NotifyScrapeFailure(context.Background(), notify.ScrapeFailurePayload{
		JobID:      "job-1",
		SourceID:   "src-1",
		ErrorClass: "extraction",
	})

	require.Len(t, first.received, 1)
	require.Len(t, second.received, 1)
	assert.Equal(t, notify.SeverityCritical, first.received[0].Severity)
}

func TestNotifyScrapeFailure_SkipsCanceled(t *testing.T) {
	sink := &captureSink{}
	svc := NewService(Options{Sinks: []SinkRegistration{{Name: "capture", Sink: sink}}})

	svc.NotifyScrapeFailure(context.Background(), notify.ScrapeFailurePayload{
		JobID:      "job-1",
		ErrorClass: "canceled",
	})

	assert.Empty(t, sink.received)
}

func TestNotifyScrapeFailure_SinkErrorDoesNotPanic(t *testing.T) {
	svc := NewService(Options{Sinks: []SinkRegistration{{
		Name: "fail",
		Sink: notify.SinkFunc(func(context.Context, notify.ScrapeFailurePayload) error {
			return errors.New("boom")
		}),
	}}})

	assert.NotPanics(t, func() {
		svc.NotifyScrapeFailure(context.Background(), notify.ScrapeFailurePayload{JobID: "job-1"})
	})
}

func TestServiceDisabled(t *testing.T) {
	assert.False(t, NewService(Options{}).Enabled())
}
