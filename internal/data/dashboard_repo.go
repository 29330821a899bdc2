package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/target/scrapediff/internal/data/pgxutil"
	"github.com/target/scrapediff/internal/domain/model"
)

// DashboardRepo provides aggregate counts for the source dashboard.
type DashboardRepo struct{ DB *sql.DB }

// NewDashboardRepo creates a new DashboardRepo.
func NewDashboardRepo(db *sql.DB) *DashboardRepo {
	return &DashboardRepo{DB: db}
}

// JobCounts returns the number of jobs per status for a source.
func (r *DashboardRepo) JobCounts(ctx context.Context, sourceID string) (model.ScrapeJobCounts, error) {
	var c model.ScrapeJobCounts
	if !validUUID(sourceID) {
		return c, nil
	}
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT
				count(*) FILTER (WHERE status = 'RUNNING'),
				count(*) FILTER (WHERE status = 'SUCCESS'),
				count(*) FILTER (WHERE status = 'ERROR')
			FROM scrape_jobs
			WHERE event_source_id = $1`, sourceID).Scan(&c.Running, &c.Success, &c.Error)
	})
	if err != nil {
		return model.ScrapeJobCounts{}, fmt.Errorf("failed to count scrape jobs: %w", err)
	}
	return c, nil
}

// EventCounts returns moderation counts for the events of a job.
func (r *DashboardRepo) EventCounts(ctx context.Context, jobID string) (model.EventCounts, error) {
	var c model.EventCounts
	if !validUUID(jobID) {
		return c, nil
	}
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT
				count(*),
				count(*) FILTER (WHERE NOT is_deleted AND NOT is_approved),
				count(*) FILTER (WHERE NOT is_deleted AND is_approved),
				count(*) FILTER (WHERE is_deleted)
			FROM events
			WHERE scrape_job_id = $1`, jobID).Scan(&c.Total, &c.Pending, &c.Approved, &c.Deleted)
	})
	if err != nil {
		return model.EventCounts{}, fmt.Errorf("failed to count events: %w", err)
	}
	return c, nil
}
