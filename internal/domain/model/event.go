package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// EventRecord is one extracted event owned by a scrape job.
//
// IsApproved and IsDeleted encode moderation state: (false,false) pending,
// (true,false) approved, (*,true) deleted.
type EventRecord struct {
	ID               string          `json:"id"                 db:"id"`
	ScrapeJobID      string          `json:"scrape_job_id"      db:"scrape_job_id"`
	EventName        string          `json:"event_name"         db:"event_name"`
	StartDate        time.Time       `json:"start_date"         db:"start_date"`
	EndDate          *time.Time      `json:"end_date,omitempty" db:"end_date"`
	Price            *string         `json:"price,omitempty"    db:"price"`
	Location         json.RawMessage `json:"location"           db:"location"`
	EventFingerprint string          `json:"event_fingerprint"  db:"event_fingerprint"`
	IsApproved       bool            `json:"is_approved"        db:"is_approved"`
	IsDeleted        bool            `json:"is_deleted"         db:"is_deleted"`
	CreatedAt        time.Time       `json:"created_at"         db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"         db:"updated_at"`
}

// ModerationState is the derived moderation label of an event.
type ModerationState string

const (
	ModerationPending  ModerationState = "pending"
	ModerationApproved ModerationState = "approved"
	ModerationDeleted  ModerationState = "deleted"
)

// ModerationState returns the label for the record's flag pair. Deletion dominates approval.
func (e EventRecord) ModerationState() ModerationState {
	switch {
	case e.IsDeleted:
		return ModerationDeleted
	case e.IsApproved:
		return ModerationApproved
	default:
		return ModerationPending
	}
}

// EventCounts holds moderation counts for the events of one job.
type EventCounts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Deleted  int `json:"deleted"`
}

// CreateEventRecordParams carries a normalized, fingerprinted candidate ready to insert.
type CreateEventRecordParams struct {
	ScrapeJobID      string
	EventName        string
	StartDate        time.Time
	EndDate          *time.Time
	Price            *string
	Location         json.RawMessage
	EventFingerprint string
}

// UpdateEventRecordParams carries a validated edit with a recomputed fingerprint.
type UpdateEventRecordParams struct {
	ID               string
	EventName        string
	StartDate        time.Time
	EndDate          *time.Time
	Price            *string
	Location         json.RawMessage
	EventFingerprint string
}

// NormalizedEvent holds the typed fields parsed from extractor or user input.
type NormalizedEvent struct {
	Name      string
	StartDate time.Time
	EndDate   *time.Time
	Price     *string
	Location  json.RawMessage
}

// CandidateEvent is one event as returned by the extractor. Fields are kept as
// text until Normalize so that one malformed candidate does not fail the batch.
type CandidateEvent struct {
	Name      string          `json:"name"`
	StartDate string          `json:"startDate"`
	EndDate   *string         `json:"endDate,omitempty"`
	Location  json.RawMessage `json:"location,omitempty"`
	Price     json.RawMessage `json:"price,omitempty"`

	// invalid records a decode problem reported by Normalize.
	invalid error
}

// MalformedCandidate returns a candidate that fails Normalize with err.
func MalformedCandidate(err error) CandidateEvent {
	return CandidateEvent{invalid: err}
}

// UnmarshalJSON decodes a candidate leniently. A field of the wrong JSON type
// marks the candidate invalid instead of failing the surrounding document.
func (c *CandidateEvent) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name      json.RawMessage `json:"name"`
		StartDate json.RawMessage `json:"startDate"`
		EndDate   json.RawMessage `json:"endDate"`
		Location  json.RawMessage `json:"location"`
		Price     json.RawMessage `json:"price"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		*c = MalformedCandidate(fmt.Errorf("event is not an object: %w", err))
		return nil
	}

	*c = CandidateEvent{Location: raw.Location, Price: raw.Price}
	var errs []error
	name, err := textField("name", raw.Name)
	errs = append(errs, err)
	c.Name = name
	start, err := textField("startDate", raw.StartDate)
	errs = append(errs, err)
	c.StartDate = start
	if !isNull(raw.EndDate) {
		end, err := textField("endDate", raw.EndDate)
		errs = append(errs, err)
		c.EndDate = &end
	}
	c.invalid = errors.Join(errs...)
	return nil
}

func textField(name string, raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%s must be a string, got %s", name, string(raw))
	}
	return s, nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// ExtractionResult is the decoded extractor response.
type ExtractionResult struct {
	Message string           `json:"message"`
	Events  []CandidateEvent `json:"events"`
}

// Normalize validates the candidate and converts it to typed UTC values.
func (c CandidateEvent) Normalize() (NormalizedEvent, error) {
	if c.invalid != nil {
		return NormalizedEvent{}, c.invalid
	}
	price, err := priceText(c.Price)
	if err != nil {
		return NormalizedEvent{}, err
	}
	return normalizeEvent(c.Name, c.StartDate, c.EndDate, price, c.Location)
}

// UpdateEventRequest represents a moderator edit of an event's fields.
type UpdateEventRequest struct {
	EventName string          `json:"event_name"`
	StartDate string          `json:"start_date"`
	EndDate   *string         `json:"end_date,omitempty"`
	Price     *string         `json:"price,omitempty"`
	Location  json.RawMessage `json:"location,omitempty"`
}

// Normalize validates the edit and converts it to typed UTC values.
func (r *UpdateEventRequest) Normalize() (NormalizedEvent, error) {
	return normalizeEvent(r.EventName, r.StartDate, r.EndDate, r.Price, r.Location)
}

func normalizeEvent(name, start string, end *string, price *string, location json.RawMessage) (NormalizedEvent, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return NormalizedEvent{}, errors.New("event name is required")
	}
	if strings.TrimSpace(start) == "" {
		return NormalizedEvent{}, errors.New("start date is required")
	}
	startAt, err := ParseEventTime(start)
	if err != nil {
		return NormalizedEvent{}, fmt.Errorf("invalid start date: %w", err)
	}

	out := NormalizedEvent{Name: name, StartDate: startAt, Price: price}
	if end != nil && strings.TrimSpace(*end) != "" {
		endAt, err := ParseEventTime(*end)
		if err != nil {
			return NormalizedEvent{}, fmt.Errorf("invalid end date: %w", err)
		}
		out.EndDate = &endAt
	}

	loc, err := normalizeLocation(location)
	if err != nil {
		return NormalizedEvent{}, err
	}
	out.Location = loc
	return out, nil
}

var eventTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseEventTime parses the date formats extractors and editors produce and
// returns the instant in UTC. Values without an offset are read as UTC.
func ParseEventTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// priceText renders an extractor price as opaque text. Numbers keep their literal form.
func priceText(raw json.RawMessage) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		v := n.String()
		return &v, nil
	}
	return nil, fmt.Errorf("invalid price %s", string(raw))
}

// normalizeLocation stores objects as given and wraps any other JSON value:
// strings as {"text": ...}, numbers, booleans and arrays as {"value": ...}.
func normalizeLocation(raw json.RawMessage) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return json.RawMessage(`{}`), nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("location is not valid JSON")
	}
	switch raw[0] {
	case '{':
		return raw, nil
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("invalid location: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			return json.RawMessage(`{}`), nil
		}
		return json.Marshal(map[string]string{"text": text})
	default:
		return json.Marshal(map[string]json.RawMessage{"value": raw})
	}
}

// ParseModerationState reads a moderation label, ignoring case and surrounding space.
func ParseModerationState(s string) (ModerationState, error) {
	switch st := ModerationState(strings.ToLower(strings.TrimSpace(s))); st {
	case ModerationPending, ModerationApproved, ModerationDeleted:
		return st, nil
	default:
		return "", fmt.Errorf("unknown moderation state %q", s)
	}
}
