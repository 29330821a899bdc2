package metrics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/target/scrapediff/internal/errors"
)

type recordedMetric struct {
	kind  string
	name  string
	value float64
	tags  map[string]string
}

type recordingSink struct {
	mu      sync.Mutex
	metrics []recordedMetric
}

func (s *recordingSink) Count(name string, value int64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, recordedMetric{kind: "count", name: name, value: float64(value), tags: tags})
}

func (s *recordingSink) Gauge(name string, value float64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, recordedMetric{kind: "gauge", name: name, value: value, tags: tags})
}

func (s *recordingSink) Timing(name string, value time.Duration, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, recordedMetric{kind: "timing", name: name, value: float64(value), tags: tags})
}

func (s *recordingSink) find(name string) (recordedMetric, bool) {
	for _, m := range s.metrics {
		if m.name == name {
			return m, true
		}
	}
	return recordedMetric{}, false
}

func TestEmitScrapeTransition_Success(t *testing.T) {
	sink := &recordingSink{}
	EmitScrapeTransition(sink, ScrapeMetric{
		Domain:     "example.com",
		Strategy:   "generic_ai",
		Transition: TransitionSuccess,
		Result:     ResultSuccess,
		Persisted:  2,
		Failed:     1,
		Duration:   3 * time.Second,
	})

	m, ok := sink.find("scrape.transition")
	require.True(t, ok)
	assert.Equal(t, "example.com", m.tags["domain"])
	assert.Equal(t, "success", m.tags["transition"])
	assert.NotContains(t, m.tags, "error_class")

	persisted, ok := sink.find("scrape.events.persisted")
	require.True(t, ok)
	assert.InDelta(t, 2, persisted.value, 0)

	_, ok = sink.find("scrape.events.failed")
	assert.True(t, ok)
	_, ok = sink.find("scrape.duration")
	assert.True(t, ok)
}

func TestEmitScrapeTransition_ErrorClass(t *testing.T) {
	sink := &recordingSink{}
	EmitScrapeTransition(sink, ScrapeMetric{
		Transition: TransitionError,
		Result:     ResultError,
		Err:        apperrors.Extraction(errors.New("boom"), "extractor failed"),
	})

	m, ok := sink.find("scrape.transition")
	require.True(t, ok)
	assert.Equal(t, "extraction", m.tags["error_class"])
	assert.NotContains(t, m.tags, "domain")

	sink = &recordingSink{}
	EmitScrapeTransition(sink, ScrapeMetric{
		Transition: TransitionError,
		Result:     ResultError,
		Err:        context.DeadlineExceeded,
	})
	m, _ = sink.find("scrape.transition")
	assert.Equal(t, "timeout", m.tags["error_class"])
}

func TestEmitDiffApply(t *testing.T) {
	sink := &recordingSink{}
	EmitDiffApply(sink, DiffApplyMetric{Result: ResultSuccess, Updated: 5, Scoped: true})

	m, ok := sink.find("diff.apply")
	require.True(t, ok)
	assert.Equal(t, "true", m.tags["scoped"])
	rows, ok := sink.find("diff.apply.rows")
	require.True(t, ok)
	assert.InDelta(t, 5, rows.value, 0)
}

func TestEmit_NilSink(t *testing.T) {
	assert.NotPanics(t, func() {
		EmitScrapeTransition(nil, ScrapeMetric{})
		EmitDiffApply(nil, DiffApplyMetric{})
	})
}

func TestCloneTags(t *testing.T) {
	assert.Nil(t, CloneTags(nil))
	src := map[string]string{"a": "1"}
	out := CloneTags(src)
	out["a"] = "2"
	assert.Equal(t, "1", src["a"])
}
