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

const scrapeJobColumns = `id, event_source_id, status, message, created_at, completed_at`

// ScrapeJobRepo provides database operations for scrape job lifecycle management.
type ScrapeJobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewScrapeJobRepo creates a new ScrapeJobRepo instance with the given database connection.
func NewScrapeJobRepo(db *sql.DB) *ScrapeJobRepo {
	return &ScrapeJobRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewScrapeJobRepoWithTimeProvider creates a ScrapeJobRepo with a custom TimeProvider (useful for testing).
func NewScrapeJobRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ScrapeJobRepo {
	return &ScrapeJobRepo{DB: db, timeProvider: tp}
}

// CreateRunning inserts a RUNNING job for the source.
func (r *ScrapeJobRepo) CreateRunning(ctx context.Context, sourceID string) (*model.ScrapeJob, error) {
	if !validUUID(sourceID) {
		return nil, ErrEventSourceNotFound
	}
	job, err := r.queryOne(ctx, `
		INSERT INTO scrape_jobs (event_source_id, status, message, created_at)
		VALUES ($1, 'RUNNING', '', $2)
		RETURNING `+scrapeJobColumns,
		sourceID, r.timeProvider.Now().UTC())
	if err != nil {
		switch {
		case isUniqueViolation(err, runningJobIndex):
			return nil, model.ErrScrapeInProgress
		case isForeignKeyViolation(err):
			return nil, ErrEventSourceNotFound
		}
		return nil, fmt.Errorf("failed to create scrape job: %w", err)
	}
	return job, nil
}

// Finish performs the single terminal transition of a RUNNING job.
func (r *ScrapeJobRepo) Finish(ctx context.Context, params model.FinishScrapeJobParams) (*model.ScrapeJob, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if !validUUID(params.ID) {
		return nil, ErrScrapeJobNotFound
	}
	job, err := r.queryOne(ctx, `
		UPDATE scrape_jobs
		SET status = $2, message = $3, completed_at = $4
		WHERE id = $1 AND status = 'RUNNING'
		RETURNING `+scrapeJobColumns,
		params.ID, params.Status, model.TruncateScrapeMessage(params.Message), r.timeProvider.Now().UTC())
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to finish scrape job: %w", err)
	}

	// Distinguish a missing job from one that already reached a terminal state.
	if _, getErr := r.GetByID(ctx, params.ID); getErr != nil {
		return nil, getErr
	}
	return nil, model.ErrJobAlreadyFinished
}

// GetByID retrieves a scrape job by its ID.
func (r *ScrapeJobRepo) GetByID(ctx context.Context, id string) (*model.ScrapeJob, error) {
	if !validUUID(id) {
		return nil, ErrScrapeJobNotFound
	}
	job, err := r.queryOne(ctx, `SELECT `+scrapeJobColumns+` FROM scrape_jobs WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScrapeJobNotFound
		}
		return nil, fmt.Errorf("failed to get scrape job by ID: %w", err)
	}
	return job, nil
}

// List returns jobs for a source, newest first, optionally filtered by status.
func (r *ScrapeJobRepo) List(ctx context.Context, opts model.ScrapeJobListOptions) ([]*model.ScrapeJob, error) {
	if !validUUID(opts.SourceID) {
		return []*model.ScrapeJob{}, nil
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	where := []string{"event_source_id = $1"}
	args := []any{opts.SourceID}
	if opts.Status != nil {
		args = append(args, *opts.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	args = append(args, limit, offset)

	q := `SELECT ` + scrapeJobColumns + ` FROM scrape_jobs WHERE ` + strings.Join(where, " AND ") +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	jobs, err := r.queryMany(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scrape jobs: %w", err)
	}
	return jobs, nil
}

// LatestSuccessful returns up to limit SUCCESS jobs of a source, newest first.
func (r *ScrapeJobRepo) LatestSuccessful(ctx context.Context, sourceID string, limit int) ([]*model.ScrapeJob, error) {
	if !validUUID(sourceID) {
		return []*model.ScrapeJob{}, nil
	}
	if limit <= 0 {
		limit = 2
	}
	jobs, err := r.queryMany(ctx, `
		SELECT `+scrapeJobColumns+`
		FROM scrape_jobs
		WHERE event_source_id = $1 AND status = 'SUCCESS'
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, sourceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list successful scrape jobs: %w", err)
	}
	return jobs, nil
}

func (r *ScrapeJobRepo) queryOne(ctx context.Context, q string, args ...any) (*model.ScrapeJob, error) {
	var job model.ScrapeJob
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		job, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ScrapeJob])
		return err
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *ScrapeJobRepo) queryMany(ctx context.Context, q string, args ...any) ([]*model.ScrapeJob, error) {
	var jobs []model.ScrapeJob
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		jobs, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.ScrapeJob])
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]*model.ScrapeJob, len(jobs))
	for i := range jobs {
		out[i] = &jobs[i]
	}
	return out, nil
}
