package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/target/scrapediff/internal/observability/errors"
	"github.com/target/scrapediff/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// Transition constants for scrape job lifecycle metrics.
const (
	TransitionSuccess = "success"
	TransitionError   = "error"
	TransitionSkipped = "skipped"
)

// ScrapeMetric captures details about a scrape job terminal transition for metric emission.
type ScrapeMetric struct {
	Domain     string
	Strategy   string
	Transition string
	Result     string
	Persisted  int
	Failed     int
	Duration   time.Duration
	Err        error
}

// EmitScrapeTransition emits standardised scrape lifecycle metrics.
func EmitScrapeTransition(sink statsd.Sink, in ScrapeMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"transition": in.Transition,
		"result":     in.Result,
	}
	if in.Domain != "" {
		tags["domain"] = in.Domain
	}
	if in.Strategy != "" {
		tags["strategy"] = in.Strategy
	}

	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("scrape.transition", 1, tags)

	if in.Persisted > 0 {
		sink.Count("scrape.events.persisted", int64(in.Persisted), CloneTags(tags))
	}
	if in.Failed > 0 {
		sink.Count("scrape.events.failed", int64(in.Failed), CloneTags(tags))
	}
	if in.Duration > 0 {
		sink.Timing("scrape.duration", in.Duration, CloneTags(tags))
	}
}

// DiffApplyMetric captures the outcome of applying a moderation decision set.
type DiffApplyMetric struct {
	Result  string
	Updated int
	Scoped  bool
	Err     error
}

// EmitDiffApply emits the diff.apply counter.
func EmitDiffApply(sink statsd.Sink, in DiffApplyMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"result": in.Result,
		"scoped": strconv.FormatBool(in.Scoped),
	}
	if in.Err != nil {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}
	sink.Count("diff.apply", 1, tags)
	if in.Updated > 0 {
		sink.Count("diff.apply.rows", int64(in.Updated), CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
