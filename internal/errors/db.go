package errors

import (
	"errors"
	"regexp"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts the column list from "Key (url)=(https://...) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

type constraintInfo struct {
	code    ErrorCode
	field   string
	message string
}

// knownConstraints names the schema constraints a caller can trip.
var knownConstraints = map[string]constraintInfo{
	"event_sources_url_key": {
		code:    ErrCodeConflict,
		field:   "url",
		message: "an event source with this URL already exists",
	},
	"event_sources_strategy_check": {
		code:    ErrCodeValidation,
		field:   "scrape_strategy",
		message: "scrape strategy must be a lowercase tag",
	},
	"scrape_jobs_one_running_per_source": {
		code:    ErrCodeConflict,
		message: "a scrape is already running for this source",
	},
	"scrape_jobs_event_source_id_fkey": {
		code:    ErrCodeForeignKey,
		message: "the referenced event source does not exist",
	},
	"scrape_jobs_message_length": {
		code:    ErrCodeValidation,
		field:   "message",
		message: "scrape message is too long",
	},
	"events_scrape_job_id_fkey": {
		code:    ErrCodeForeignKey,
		message: "the referenced scrape job does not exist",
	},
	"events_name_check": {
		code:    ErrCodeValidation,
		field:   "event_name",
		message: "event name is required",
	},
	"events_location_object": {
		code:    ErrCodeValidation,
		field:   "location",
		message: "location must be a JSON object",
	},
}

// MapDBError classifies a Postgres driver error as an AppError. It returns nil
// when err is not a database error so callers can fall back to their own mapping.
func MapDBError(err error, op string) *AppError {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: op + ": not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	if info, ok := knownConstraints[pgErr.ConstraintName]; ok {
		return &AppError{Code: info.code, Message: op + ": " + info.message, Field: info.field, Cause: err}
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		field := pgErr.ColumnName
		if m := reKeyField.FindStringSubmatch(pgErr.Detail); field == "" && len(m) == 2 {
			field = m[1]
		}
		return &AppError{Code: ErrCodeConflict, Message: op + ": value already exists", Field: field, Cause: err}
	case pgerrcode.ForeignKeyViolation:
		return &AppError{Code: ErrCodeForeignKey, Message: op + ": referenced row does not exist", Cause: err}
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.InvalidTextRepresentation:
		return &AppError{Code: ErrCodeValidation, Message: op + ": invalid value", Field: pgErr.ColumnName, Cause: err}
	case pgerrcode.QueryCanceled:
		return &AppError{Code: ErrCodeTimeout, Message: op + ": statement timed out", Cause: err}
	default:
		return &AppError{Code: ErrCodePersistence, Message: op + ": database error", Cause: err}
	}
}
