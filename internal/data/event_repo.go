// Package data provides database access layer and repository implementations for event sources, scrape jobs and events.
package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/target/scrapediff/internal/data/pgxutil"
	"github.com/target/scrapediff/internal/domain/model"
)

const eventRecordColumns = `id, scrape_job_id, event_name, start_date, end_date, price, location,
	event_fingerprint, is_approved, is_deleted, created_at, updated_at`

var prefixedEventColumns = `e.id, e.scrape_job_id, e.event_name, e.start_date, e.end_date, e.price,
	e.location, e.event_fingerprint, e.is_approved, e.is_deleted, e.created_at, e.updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes LIKE wildcards so a search matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// EventRecordRepo provides database operations for extracted event records.
type EventRecordRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewEventRecordRepo creates a new EventRecordRepo instance with the given database connection.
func NewEventRecordRepo(db *sql.DB) *EventRecordRepo {
	return &EventRecordRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewEventRecordRepoWithTimeProvider creates an EventRecordRepo with a custom TimeProvider (useful for testing).
func NewEventRecordRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *EventRecordRepo {
	return &EventRecordRepo{DB: db, timeProvider: tp}
}

// Create inserts one event record. Records are never upserted; duplicates are allowed.
func (r *EventRecordRepo) Create(ctx context.Context, params model.CreateEventRecordParams) (*model.EventRecord, error) {
	now := r.timeProvider.Now().UTC()
	rec, err := r.queryOne(ctx, `
		INSERT INTO events (scrape_job_id, event_name, start_date, end_date, price, location,
			event_fingerprint, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING `+eventRecordColumns,
		params.ScrapeJobID, params.EventName, params.StartDate.UTC(), utcPtr(params.EndDate),
		params.Price, normalizeLocation(params.Location), params.EventFingerprint, now)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrScrapeJobNotFound
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return rec, nil
}

// GetByID retrieves an event record by its ID.
func (r *EventRecordRepo) GetByID(ctx context.Context, id string) (*model.EventRecord, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrEventNotFound
	}
	rec, err := r.queryOne(ctx, `SELECT `+eventRecordColumns+` FROM events WHERE id = $1`, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event by ID: %w", err)
	}
	return rec, nil
}

// ListByJob returns every record of a job in insertion order.
func (r *EventRecordRepo) ListByJob(ctx context.Context, jobID string) ([]model.EventRecord, error) {
	uid, err := uuid.Parse(jobID)
	if err != nil {
		return nil, ErrScrapeJobNotFound
	}

	var out []model.EventRecord
	err = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+eventRecordColumns+`
			FROM events
			WHERE scrape_job_id = $1
			ORDER BY seq ASC`, uid)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.EventRecord])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events by job: %w", err)
	}
	return out, nil
}

// List returns one page of events matching opts, newest start date first,
// together with the total number of matches. Moderation state filters follow
// ModerationState: deleted dominates approved.
func (r *EventRecordRepo) List(ctx context.Context, opts model.EventListOptions) (*model.EventList, error) {
	out := &model.EventList{Events: []model.EventRecord{}}
	if opts.SourceID != "" && !validUUID(opts.SourceID) {
		return out, nil
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	from := `FROM events e`
	var where []string
	var args []any
	if opts.SourceID != "" {
		from += ` JOIN scrape_jobs j ON j.id = e.scrape_job_id`
		args = append(args, opts.SourceID)
		where = append(where, fmt.Sprintf("j.event_source_id = $%d", len(args)))
	}
	if opts.State != nil {
		switch *opts.State {
		case model.ModerationPending:
			where = append(where, "NOT e.is_approved AND NOT e.is_deleted")
		case model.ModerationApproved:
			where = append(where, "e.is_approved AND NOT e.is_deleted")
		case model.ModerationDeleted:
			where = append(where, "e.is_deleted")
		}
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		where = append(where, fmt.Sprintf(`e.event_name ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if opts.StartFrom != nil {
		args = append(args, opts.StartFrom.UTC())
		where = append(where, fmt.Sprintf("e.start_date >= $%d", len(args)))
	}
	if opts.StartTo != nil {
		args = append(args, opts.StartTo.UTC())
		where = append(where, fmt.Sprintf("e.start_date <= $%d", len(args)))
	}
	if len(where) > 0 {
		from += ` WHERE ` + strings.Join(where, " AND ")
	}

	pageArgs := append(append([]any{}, args...), limit, offset)
	q := `SELECT ` + prefixedEventColumns + ` ` + from +
		fmt.Sprintf(" ORDER BY e.start_date DESC, e.id ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		if err := conn.QueryRow(ctx, `SELECT count(*) `+from, args...).Scan(&out.Total); err != nil {
			return err
		}
		rows, err := conn.Query(ctx, q, pageArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out.Events, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.EventRecord])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	if out.Events == nil {
		out.Events = []model.EventRecord{}
	}
	return out, nil
}

// Update replaces the editable fields of an event and its fingerprint. Moderation flags are untouched.
func (r *EventRecordRepo) Update(ctx context.Context, params model.UpdateEventRecordParams) (*model.EventRecord, error) {
	uid, err := uuid.Parse(params.ID)
	if err != nil {
		return nil, ErrEventNotFound
	}
	rec, err := r.queryOne(ctx, `
		UPDATE events
		SET event_name = $2,
			start_date = $3,
			end_date = $4,
			price = $5,
			location = $6,
			event_fingerprint = $7,
			updated_at = $8
		WHERE id = $1
		RETURNING `+eventRecordColumns,
		uid, params.EventName, params.StartDate.UTC(), utcPtr(params.EndDate), params.Price,
		normalizeLocation(params.Location), params.EventFingerprint, r.timeProvider.Now().UTC())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return rec, nil
}

// Delete hard-deletes an event record. It reports whether a row was removed.
func (r *EventRecordRepo) Delete(ctx context.Context, id string) (bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}
	var deleted bool
	err = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM events WHERE id = $1`, uid)
		if err != nil {
			return err
		}
		deleted = ct.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete event: %w", err)
	}
	return deleted, nil
}

func (r *EventRecordRepo) queryOne(ctx context.Context, q string, args ...any) (*model.EventRecord, error) {
	var rec model.EventRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rec, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.EventRecord])
		return err
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func normalizeLocation(loc json.RawMessage) json.RawMessage {
	if len(loc) == 0 {
		return json.RawMessage(`{}`)
	}
	return loc
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
