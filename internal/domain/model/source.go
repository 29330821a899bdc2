// Package model defines the core data types shared by the scrape, reconcile and moderation layers.
package model

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// maxURLLen is the maximum allowed length for an event source URL in characters.
	maxURLLen = 2048
)

// ScrapeStrategy tags how an event source is extracted.
type ScrapeStrategy string

const (
	// StrategyGenericAI extracts events from page text with the generic AI extractor.
	StrategyGenericAI ScrapeStrategy = "generic_ai"
	// StrategyPDF extracts events from linked PDF documents.
	StrategyPDF ScrapeStrategy = "pdf"
	// StrategyImage extracts events from flyer images.
	StrategyImage ScrapeStrategy = "image"
	// StrategyCSSCalendar extracts events from calendar markup via CSS selectors.
	StrategyCSSCalendar ScrapeStrategy = "css_calendar"

	// DefaultScrapeStrategy is applied when a source is created without a strategy.
	DefaultScrapeStrategy = StrategyGenericAI
)

var strategyTagRe = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// Known reports whether the strategy is one of the tags the application recognizes.
// Recognized does not mean implemented; see the extractor router.
func (s ScrapeStrategy) Known() bool {
	switch s {
	case StrategyGenericAI, StrategyPDF, StrategyImage, StrategyCSSCalendar:
		return true
	default:
		return false
	}
}

func (s ScrapeStrategy) validTag() bool {
	return strategyTagRe.MatchString(string(s))
}

// EventSource is an external scrape target.
type EventSource struct {
	ID             string         `json:"id"              db:"id"`
	URL            string         `json:"url"             db:"url"`
	ScrapeStrategy ScrapeStrategy `json:"scrape_strategy" db:"scrape_strategy"`
	Domain         string         `json:"domain"          db:"domain"`
	CreatedAt      time.Time      `json:"created_at"      db:"created_at"`
}

// CreateEventSourceRequest represents a request to register a new event source.
type CreateEventSourceRequest struct {
	URL            string         `json:"url"`
	ScrapeStrategy ScrapeStrategy `json:"scrape_strategy,omitempty"`
}

// UpdateEventSourceRequest represents a request to update an existing event source.
type UpdateEventSourceRequest struct {
	URL            *string         `json:"url,omitempty"`
	ScrapeStrategy *ScrapeStrategy `json:"scrape_strategy,omitempty"`
}

// Normalize trims input and applies the default strategy.
func (r *CreateEventSourceRequest) Normalize() {
	r.URL = strings.TrimSpace(r.URL)
	r.ScrapeStrategy = ScrapeStrategy(strings.ToLower(strings.TrimSpace(string(r.ScrapeStrategy))))
	if r.ScrapeStrategy == "" {
		r.ScrapeStrategy = DefaultScrapeStrategy
	}
}

// Validate validates the CreateEventSourceRequest fields.
func (r *CreateEventSourceRequest) Validate() error {
	if err := validateSourceURL(r.URL); err != nil {
		return err
	}
	if r.ScrapeStrategy != "" && !r.ScrapeStrategy.validTag() {
		return fmt.Errorf("invalid scrape_strategy %q", r.ScrapeStrategy)
	}
	return nil
}

// Validate validates the UpdateEventSourceRequest fields and ensures at least one field is being updated.
func (r *UpdateEventSourceRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.URL != nil {
		if err := validateSourceURL(strings.TrimSpace(*r.URL)); err != nil {
			return err
		}
	}
	if r.ScrapeStrategy != nil && !r.ScrapeStrategy.validTag() {
		return fmt.Errorf("invalid scrape_strategy %q", *r.ScrapeStrategy)
	}
	return nil
}

// HasUpdates returns true if the UpdateEventSourceRequest has any fields to update.
func (r *UpdateEventSourceRequest) HasUpdates() bool {
	return r.URL != nil || r.ScrapeStrategy != nil
}

func validateSourceURL(raw string) error {
	if raw == "" {
		return errors.New("url is required and cannot be empty")
	}
	if utf8.RuneCountInString(raw) > maxURLLen {
		return errors.New("url cannot exceed 2048 characters")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("url must use http or https")
	}
	if u.Hostname() == "" {
		return errors.New("url must include a host")
	}
	return nil
}

// CreateEventSourceParams is a validated create request with the derived domain.
type CreateEventSourceParams struct {
	URL            string
	ScrapeStrategy ScrapeStrategy
	Domain         string
}

// UpdateEventSourceParams is a validated update request. Domain is set whenever URL is.
type UpdateEventSourceParams struct {
	URL            *string
	ScrapeStrategy *ScrapeStrategy
	Domain         *string
}
