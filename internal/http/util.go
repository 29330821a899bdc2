package httpx

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/target/scrapediff/internal/domain/model"
	apperrors "github.com/target/scrapediff/internal/errors"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// parseIntQuery returns the integer value of a query param or a default.
// It is tolerant of missing/invalid values.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// ParseLimitOffset parses common pagination params and clamps to sane bounds.
// - defLimit: default limit when not specified
// - maxLimit: maximum allowed limit (values > maxLimit are clamped to maxLimit).
func ParseLimitOffset(r *http.Request, defLimit, maxLimit int) (int, int) {
	if maxLimit < 1 {
		maxLimit = 1
	}

	lim := parseIntQuery(r, "limit", defLimit)
	off := parseIntQuery(r, "offset", 0)
	if lim < 1 {
		lim = 1
	}
	if lim > maxLimit {
		lim = maxLimit
	}
	if off < 0 {
		off = 0
	}
	return lim, off
}

// parseStatusQuery reads an optional ?status= filter for job listings.
func parseStatusQuery(r *http.Request) (*model.ScrapeStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("status"))
	if raw == "" {
		return nil, nil
	}
	st := model.ScrapeStatus(strings.ToUpper(raw))
	if !st.Valid() || st == model.ScrapeStatusPending {
		return nil, apperrors.ValidationField("status", "status must be one of: RUNNING, SUCCESS, ERROR")
	}
	return &st, nil
}

// parseEventListQuery reads the event browsing filters:
// ?source=, ?status=pending|approved|deleted, ?search=, ?start_from=, ?start_to=, ?limit=, ?offset=.
func parseEventListQuery(r *http.Request) (model.EventListOptions, error) {
	q := r.URL.Query()
	limit, offset := ParseLimitOffset(r, defaultPageLimit, maxPageLimit)
	opts := model.EventListOptions{
		SourceID: strings.TrimSpace(q.Get("source")),
		Search:   strings.TrimSpace(q.Get("search")),
		Limit:    limit,
		Offset:   offset,
	}

	if raw := q.Get("status"); strings.TrimSpace(raw) != "" {
		st, err := model.ParseModerationState(raw)
		if err != nil {
			return opts, apperrors.ValidationField("status", "status must be one of: pending, approved, deleted")
		}
		opts.State = &st
	}
	for _, p := range []struct {
		key string
		dst **time.Time
	}{
		{"start_from", &opts.StartFrom},
		{"start_to", &opts.StartTo},
	} {
		raw := strings.TrimSpace(q.Get(p.key))
		if raw == "" {
			continue
		}
		t, err := model.ParseEventTime(raw)
		if err != nil {
			return opts, apperrors.ValidationField(p.key, p.key+" must be a date or RFC 3339 timestamp")
		}
		*p.dst = &t
	}
	return opts, nil
}

// statusForCode maps application error codes to HTTP status codes.
func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeValidation, apperrors.ErrCodeForeignKey:
		return http.StatusBadRequest
	case apperrors.ErrCodeApply, apperrors.ErrCodeUnsupportedStrategy, apperrors.ErrCodeExtraction:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// statusForError returns the HTTP status for a service error.
func statusForError(err error) int {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	return statusForCode(appErr.Code)
}

// writeServiceError renders a service error with the status its code maps to.
// Uncoded errors are reported as internal without leaking their text.
func writeServiceError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: string(apperrors.ErrCodeInternal),
			Err:     errors.New("internal error"),
		})
		return
	}
	WriteError(w, ErrorParams{
		Code:    statusForCode(appErr.Code),
		ErrCode: string(appErr.Code),
		Err:     appErr,
	})
}
