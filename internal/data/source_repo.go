package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/target/scrapediff/internal/data/pgxutil"
	"github.com/target/scrapediff/internal/domain/model"
)

const eventSourceColumns = `id, url, scrape_strategy, domain, created_at`

// EventSourceRepo provides database operations for event source management.
type EventSourceRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewEventSourceRepo creates a new EventSourceRepo instance with the given database connection.
func NewEventSourceRepo(db *sql.DB) *EventSourceRepo {
	return &EventSourceRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// NewEventSourceRepoWithTimeProvider creates an EventSourceRepo with a custom TimeProvider (useful for testing).
func NewEventSourceRepoWithTimeProvider(db *sql.DB, timeProvider TimeProvider) *EventSourceRepo {
	return &EventSourceRepo{
		DB:           db,
		timeProvider: timeProvider,
	}
}

// Create inserts a new event source.
func (r *EventSourceRepo) Create(ctx context.Context, params model.CreateEventSourceParams) (*model.EventSource, error) {
	if strings.TrimSpace(params.URL) == "" {
		return nil, errors.New("url is required")
	}
	strategy := params.ScrapeStrategy
	if strategy == "" {
		strategy = model.DefaultScrapeStrategy
	}

	src, err := r.queryOne(ctx, `
		INSERT INTO event_sources (url, scrape_strategy, domain, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+eventSourceColumns,
		params.URL, strategy, params.Domain, r.timeProvider.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event source: %w", mapSourceWriteErr(err))
	}
	return src, nil
}

// GetByID retrieves an event source by its ID.
func (r *EventSourceRepo) GetByID(ctx context.Context, id string) (*model.EventSource, error) {
	if !validUUID(id) {
		return nil, ErrEventSourceNotFound
	}
	src, err := r.queryOne(ctx, `SELECT `+eventSourceColumns+` FROM event_sources WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventSourceNotFound
		}
		return nil, fmt.Errorf("failed to get event source by ID: %w", err)
	}
	return src, nil
}

// List retrieves event sources with pagination, oldest first.
func (r *EventSourceRepo) List(ctx context.Context, opts model.EventSourceListOptions) ([]*model.EventSource, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	out, err := r.queryMany(ctx, `
		SELECT `+eventSourceColumns+`
		FROM event_sources
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list event sources: %w", err)
	}
	return out, nil
}

// ListAll retrieves every event source, oldest first.
func (r *EventSourceRepo) ListAll(ctx context.Context) ([]*model.EventSource, error) {
	out, err := r.queryMany(ctx, `
		SELECT `+eventSourceColumns+`
		FROM event_sources
		ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list all event sources: %w", err)
	}
	return out, nil
}

// Update changes the url and/or strategy of an event source.
func (r *EventSourceRepo) Update(
	ctx context.Context,
	id string,
	params model.UpdateEventSourceParams,
) (*model.EventSource, error) {
	if !validUUID(id) {
		return nil, ErrEventSourceNotFound
	}
	setParts := make([]string, 0, 3)
	args := make([]any, 0, 4)
	argIdx := 1
	if params.URL != nil {
		setParts = append(setParts, fmt.Sprintf("url = $%d", argIdx))
		args = append(args, *params.URL)
		argIdx++
	}
	if params.Domain != nil {
		setParts = append(setParts, fmt.Sprintf("domain = $%d", argIdx))
		args = append(args, *params.Domain)
		argIdx++
	}
	if params.ScrapeStrategy != nil {
		setParts = append(setParts, fmt.Sprintf("scrape_strategy = $%d", argIdx))
		args = append(args, *params.ScrapeStrategy)
		argIdx++
	}
	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)

	src, err := r.queryOne(ctx,
		"UPDATE event_sources SET "+strings.Join(setParts, ", ")+
			fmt.Sprintf(" WHERE id = $%d RETURNING ", argIdx)+eventSourceColumns,
		args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventSourceNotFound
		}
		return nil, fmt.Errorf("failed to update event source: %w", mapSourceWriteErr(err))
	}
	return src, nil
}

// queryOne executes a query and returns a single source.
func (r *EventSourceRepo) queryOne(ctx context.Context, q string, args ...any) (*model.EventSource, error) {
	var src model.EventSource
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		src, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.EventSource])
		return err
	})
	if err != nil {
		return nil, err
	}
	return &src, nil
}

func (r *EventSourceRepo) queryMany(ctx context.Context, q string, args ...any) ([]*model.EventSource, error) {
	var sources []model.EventSource
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		sources, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.EventSource])
		return err
	})
	if err != nil {
		return nil, err
	}

	result := make([]*model.EventSource, len(sources))
	for i := range sources {
		result[i] = &sources[i]
	}
	return result, nil
}

func mapSourceWriteErr(err error) error {
	if isUniqueViolation(err, "event_sources_url_key") {
		return ErrEventSourceURLExists
	}
	return err
}
