package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP API server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeScheduler runs periodic scrape-all passes.
	ServiceModeScheduler ServiceMode = "scheduler"
	// ServiceModeReaper runs the abandoned scrape job reaper.
	ServiceModeReaper ServiceMode = "reaper"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeScheduler,
		ServiceModeReaper,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeScheduler, ServiceModeReaper:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, scheduler, reaper)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// ScrapeConfig contains scrape run configuration.
type ScrapeConfig struct {
	// Concurrency bounds how many sources a scrape-all pass runs at once.
	Concurrency int `env:"SCRAPE_CONCURRENCY" envDefault:"4"`

	// Timeout bounds a single extractor call.
	Timeout time.Duration `env:"SCRAPE_TIMEOUT" envDefault:"2m"`
}

// Sanitize applies guardrails to scrape configuration values.
func (s *ScrapeConfig) Sanitize() {
	if s.Concurrency < 1 {
		s.Concurrency = 1
	}
	if s.Concurrency > 64 {
		s.Concurrency = 64
	}
	if s.Timeout < time.Second {
		s.Timeout = time.Second
	}
}

// ExtractorConfig configures the HTTP client for the extraction service.
type ExtractorConfig struct {
	// URL is the endpoint that receives {url, strategy} and returns extracted events.
	URL string `env:"EXTRACTOR_URL" envDefault:"http://localhost:8090/extract"`

	// Timeout is the HTTP client timeout; the scrape timeout also applies.
	Timeout time.Duration `env:"EXTRACTOR_TIMEOUT" envDefault:"90s"`

	// EventsPath is a JMESPath expression locating the events array in the response.
	EventsPath string `env:"EXTRACTOR_EVENTS_PATH" envDefault:"events"`

	// MessagePath is a JMESPath expression locating the status message in the response.
	MessagePath string `env:"EXTRACTOR_MESSAGE_PATH" envDefault:"message"`

	// APIKey, when set, is sent as a bearer token.
	APIKey string `env:"EXTRACTOR_API_KEY"`

	// RetryLimit is the number of extra attempts after a transport error or 5xx response.
	RetryLimit int `env:"EXTRACTOR_RETRY_LIMIT" envDefault:"1"`
}

// Sanitize applies guardrails to extractor configuration values.
func (e *ExtractorConfig) Sanitize() {
	e.URL = strings.TrimSpace(e.URL)
	e.APIKey = strings.TrimSpace(e.APIKey)
	if strings.TrimSpace(e.EventsPath) == "" {
		e.EventsPath = "events"
	}
	if strings.TrimSpace(e.MessagePath) == "" {
		e.MessagePath = "message"
	}
	if e.Timeout <= 0 {
		e.Timeout = 90 * time.Second
	}
	if e.RetryLimit < 0 {
		e.RetryLimit = 0
	}
	if e.RetryLimit > 5 {
		e.RetryLimit = 5
	}
}

// SchedulerConfig contains scrape scheduler configuration.
type SchedulerConfig struct {
	// Spec is a cron expression (robfig/cron syntax, descriptors allowed) for scrape-all passes.
	Spec string `env:"SCHEDULER_SPEC" envDefault:"@every 6h"`

	// RunOnStart triggers one scrape-all pass immediately when the scheduler starts.
	RunOnStart bool `env:"SCHEDULER_RUN_ON_START" envDefault:"false"`
}

// Sanitize applies guardrails to scheduler configuration values.
func (s *SchedulerConfig) Sanitize() {
	s.Spec = strings.TrimSpace(s.Spec)
	if s.Spec == "" {
		s.Spec = "@every 6h"
	}
}

// ReaperConfig contains abandoned scrape job reaper configuration.
type ReaperConfig struct {
	// Interval is the reaper tick interval.
	Interval time.Duration `env:"REAPER_INTERVAL" envDefault:"5m"`

	// RunningMaxAge is the maximum age of a RUNNING scrape job before it is failed as abandoned.
	RunningMaxAge time.Duration `env:"REAPER_RUNNING_MAX_AGE" envDefault:"30m"`

	// BatchSize is the maximum number of rows to process per operation.
	// Batching prevents long locks and I/O spikes on large tables.
	BatchSize int `env:"REAPER_BATCH_SIZE" envDefault:"1000"`
}

// Sanitize applies guardrails to reaper configuration values.
func (r *ReaperConfig) Sanitize() {
	// Enforce minimum intervals to prevent excessive database load
	if r.Interval < 1*time.Minute {
		r.Interval = 1 * time.Minute
	}
	if r.RunningMaxAge < 5*time.Minute {
		r.RunningMaxAge = 5 * time.Minute
	}

	if r.BatchSize < 1 {
		r.BatchSize = 1
	}
	if r.BatchSize > 10000 {
		r.BatchSize = 10000
	}
}
