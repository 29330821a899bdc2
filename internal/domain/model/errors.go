package model

import "errors"

// Lookup and ownership errors shared by repositories and services.
var (
	ErrEventSourceNotFound  = errors.New("event source not found")
	ErrEventSourceURLExists = errors.New("event source url already exists")
	ErrScrapeJobNotFound    = errors.New("scrape job not found")
	ErrEventNotFound        = errors.New("event not found")
	// ErrForeignEvent is returned when a decision references an event outside the requested source.
	ErrForeignEvent = errors.New("event does not belong to source")
)
