package model

import "time"

// ScrapeJobListOptions groups parameters for listing scrape jobs of a source.
type ScrapeJobListOptions struct {
	SourceID string
	Status   *ScrapeStatus // Optional filter by status (RUNNING, SUCCESS, ERROR)
	Limit    int
	Offset   int
}

// EventSourceListOptions groups parameters for listing event sources.
type EventSourceListOptions struct {
	Limit  int
	Offset int
}

// EventListOptions groups filters for browsing event records across scrapes.
type EventListOptions struct {
	SourceID  string           // Optional: events of any job of this source
	State     *ModerationState // Optional: pending, approved or deleted
	Search    string           // Optional: case-insensitive substring of the event name
	StartFrom *time.Time       // Optional: start_date >= StartFrom
	StartTo   *time.Time       // Optional: start_date <= StartTo
	Limit     int
	Offset    int
}

// EventList is one page of events plus the total number matching the filters.
type EventList struct {
	Events []EventRecord `json:"events"`
	Total  int           `json:"total"`
}
