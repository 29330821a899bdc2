package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "single service - http",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:     "single service - scheduler",
			input:    "scheduler",
			expected: map[ServiceMode]bool{ServiceModeScheduler: true},
		},
		{
			name:  "all services",
			input: "http,scheduler,reaper",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:      true,
				ServiceModeScheduler: true,
				ServiceModeReaper:    true,
			},
		},
		{
			name:  "services with spaces",
			input: " http , reaper ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:   true,
				ServiceModeReaper: true,
			},
		},
		{
			name:     "duplicate services",
			input:    "http,http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
		{
			name:        "only spaces and commas",
			input:       " , , ",
			expectError: true,
		},
		{
			name:        "invalid service name",
			input:       "http,rules-engine",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if len(result) != len(tt.expected) {
				t.Errorf("expected %d services, got %d", len(tt.expected), len(result))
				return
			}

			for service, expected := range tt.expected {
				if result[service] != expected {
					t.Errorf("expected service %s to be %v, got %v", service, expected, result[service])
				}
			}
		})
	}
}

func TestConfig_ServiceEnabledMethods(t *testing.T) {
	tests := []struct {
		name              string
		services          string
		expectedHTTP      bool
		expectedScheduler bool
		expectedReaper    bool
	}{
		{name: "default - http only", services: "http", expectedHTTP: true},
		{name: "http and scheduler", services: "http,scheduler", expectedHTTP: true, expectedScheduler: true},
		{name: "reaper only", services: "reaper", expectedReaper: true},
		{name: "invalid configuration", services: "invalid-service"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AppConfig{Services: tt.services}

			if cfg.IsHTTPServerEnabled() != tt.expectedHTTP {
				t.Errorf("IsHTTPServerEnabled(): expected %v, got %v", tt.expectedHTTP, cfg.IsHTTPServerEnabled())
			}
			if cfg.IsSchedulerEnabled() != tt.expectedScheduler {
				t.Errorf("IsSchedulerEnabled(): expected %v, got %v", tt.expectedScheduler, cfg.IsSchedulerEnabled())
			}
			if cfg.IsReaperEnabled() != tt.expectedReaper {
				t.Errorf("IsReaperEnabled(): expected %v, got %v", tt.expectedReaper, cfg.IsReaperEnabled())
			}
		})
	}
}

func TestValidServiceModes(t *testing.T) {
	modes := ValidServiceModes()
	expected := []ServiceMode{ServiceModeHTTP, ServiceModeScheduler, ServiceModeReaper}

	if len(modes) != len(expected) {
		t.Fatalf("expected %d service modes, got %d", len(expected), len(modes))
	}
	for i, mode := range modes {
		if mode != expected[i] {
			t.Errorf("expected service mode %s at index %d, got %s", expected[i], i, mode)
		}
	}
}

func TestAppConfig_ParseDefaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Scrape.Concurrency != 4 {
		t.Errorf("expected scrape concurrency 4, got %d", cfg.Scrape.Concurrency)
	}
	if cfg.Scrape.Timeout != 2*time.Minute {
		t.Errorf("expected scrape timeout 2m, got %v", cfg.Scrape.Timeout)
	}
	if cfg.Scheduler.Spec != "@every 6h" {
		t.Errorf("expected default scheduler spec, got %q", cfg.Scheduler.Spec)
	}
	if cfg.Extractor.EventsPath != "events" || cfg.Extractor.MessagePath != "message" {
		t.Errorf("unexpected extractor paths: %q %q", cfg.Extractor.EventsPath, cfg.Extractor.MessagePath)
	}
	if cfg.Redis.Enabled {
		t.Error("expected redis lock disabled by default")
	}
}

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("SCRAPE_CONCURRENCY", "8")
	t.Setenv("SCRAPE_TIMEOUT", "45s")
	t.Setenv("EXTRACTOR_URL", " https://extract.example.com/v1 ")
	t.Setenv("EXTRACTOR_EVENTS_PATH", "data.items")
	t.Setenv("SCHEDULER_SPEC", "0 */2 * * *")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_LOCK_TTL", "1s")
	t.Setenv("REAPER_RUNNING_MAX_AGE", "1m")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Scrape.Concurrency != 8 || cfg.Scrape.Timeout != 45*time.Second {
		t.Errorf("unexpected scrape config: %+v", cfg.Scrape)
	}
	if cfg.Extractor.URL != "https://extract.example.com/v1" {
		t.Errorf("expected trimmed extractor url, got %q", cfg.Extractor.URL)
	}
	if cfg.Extractor.EventsPath != "data.items" {
		t.Errorf("unexpected events path %q", cfg.Extractor.EventsPath)
	}
	if cfg.Scheduler.Spec != "0 */2 * * *" {
		t.Errorf("unexpected scheduler spec %q", cfg.Scheduler.Spec)
	}
	if !cfg.Redis.Enabled || cfg.Redis.LockTTL != 10*time.Second {
		t.Errorf("expected redis enabled with clamped lock ttl, got %+v", cfg.Redis)
	}
	if cfg.Reaper.RunningMaxAge != 45*time.Second+reaperScrapeMargin {
		t.Errorf("expected running max age raised past the scrape timeout, got %v", cfg.Reaper.RunningMaxAge)
	}
}

func TestAppConfig_Sanitize_ReaperOutlivesScrapeTimeout(t *testing.T) {
	cfg := AppConfig{
		Scrape: ScrapeConfig{Concurrency: 4, Timeout: time.Hour},
		Reaper: ReaperConfig{RunningMaxAge: 30 * time.Minute},
	}
	cfg.Sanitize()
	if cfg.Reaper.RunningMaxAge != time.Hour+reaperScrapeMargin {
		t.Fatalf("expected max age of %v, got %v", time.Hour+reaperScrapeMargin, cfg.Reaper.RunningMaxAge)
	}

	cfg = AppConfig{
		Scrape: ScrapeConfig{Concurrency: 4, Timeout: 2 * time.Minute},
		Reaper: ReaperConfig{RunningMaxAge: 30 * time.Minute},
	}
	cfg.Sanitize()
	if cfg.Reaper.RunningMaxAge != 30*time.Minute {
		t.Fatalf("expected configured max age to be kept, got %v", cfg.Reaper.RunningMaxAge)
	}
}

func TestScrapeConfig_Sanitize(t *testing.T) {
	cfg := ScrapeConfig{Concurrency: 0, Timeout: 0}
	cfg.Sanitize()
	if cfg.Concurrency != 1 || cfg.Timeout != time.Second {
		t.Fatalf("unexpected sanitized scrape config: %+v", cfg)
	}

	cfg = ScrapeConfig{Concurrency: 1000, Timeout: time.Minute}
	cfg.Sanitize()
	if cfg.Concurrency != 64 {
		t.Fatalf("expected concurrency clamped to 64, got %d", cfg.Concurrency)
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
		Prefix:        ".scrapediff.",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
	if cfg.Prefix != "scrapediff" {
		t.Fatalf("expected prefix dots trimmed, got %q", cfg.Prefix)
	}
}

func TestObservabilityNotificationsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityNotificationsConfig{
		Enabled:    true,
		RetryLimit: -2,
		Slack:      SlackNotificationConfig{Enabled: true, WebhookURL: " "},
		PagerDuty:  PagerDutyNotificationConfig{Enabled: true, RoutingKey: "key"},
	}
	cfg.Sanitize()

	if cfg.Timeout != 5*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.Timeout)
	}
	if cfg.RetryLimit != 0 {
		t.Fatalf("expected retry limit clamped to 0, got %d", cfg.RetryLimit)
	}
	if cfg.Slack.Enabled {
		t.Fatal("expected slack disabled without a webhook url")
	}
	if !cfg.PagerDuty.Enabled {
		t.Fatal("expected pagerduty to stay enabled with a routing key")
	}
	if cfg.PagerDuty.Source != "scrapediff" || cfg.Slack.Username != "scrapediff" {
		t.Fatalf("expected default names, got %q / %q", cfg.PagerDuty.Source, cfg.Slack.Username)
	}

	cfg = ObservabilityNotificationsConfig{
		Slack: SlackNotificationConfig{Enabled: true, WebhookURL: "https://hooks.slack.test/x"},
	}
	cfg.Sanitize()
	if cfg.Slack.Enabled {
		t.Fatal("expected sinks disabled when notifications are off")
	}
}
