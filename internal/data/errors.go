package data

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/target/scrapediff/internal/domain/model"
)

// Sentinel errors returned by data-layer repositories. They alias the model
// errors so callers can match with errors.Is without importing this package.
var (
	ErrEventSourceNotFound  = model.ErrEventSourceNotFound
	ErrEventSourceURLExists = model.ErrEventSourceURLExists
	ErrScrapeJobNotFound    = model.ErrScrapeJobNotFound
	ErrEventNotFound        = model.ErrEventNotFound
	ErrForeignEvent         = model.ErrForeignEvent
)

// runningJobIndex is the partial unique index that allows one RUNNING job per source.
const runningJobIndex = "scrape_jobs_one_running_per_source"

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}

// validUUID guards uuid columns so malformed ids read as "not found" instead of a driver error.
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
