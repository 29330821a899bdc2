package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/target/scrapediff/internal/core"
	"github.com/target/scrapediff/internal/data/pgxutil"
	"github.com/target/scrapediff/internal/domain/model"
)

// Advisory lock namespace for reaper operations.
// Using two-arg pg_try_advisory_xact_lock(major, minor) for proper namespacing.
const (
	advisoryLockReaperMajor       = 1000
	advisoryLockReaperFailRunning = 1
)

// FailStaleRunningJobs marks RUNNING jobs older than MaxAge as ERROR.
// Uses an advisory lock so that concurrent reaper instances do not race.
func (r *ScrapeJobRepo) FailStaleRunningJobs(ctx context.Context, params core.FailStaleRunningParams) (int64, error) {
	if params.MaxAge <= 0 {
		return 0, errors.New("max age must be positive")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = 100
	}
	msg := model.TruncateScrapeMessage(params.Message)

	var rowsAffected int64
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			var locked bool
			if err := tx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1, $2)",
				advisoryLockReaperMajor, advisoryLockReaperFailRunning).Scan(&locked); err != nil {
				return fmt.Errorf("acquire advisory lock: %w", err)
			}
			if !locked {
				return nil
			}

			now := r.timeProvider.Now().UTC()
			res, err := tx.ExecContext(ctx, `
				UPDATE scrape_jobs
				SET status = 'ERROR',
					message = $1,
					completed_at = $2
				WHERE id IN (
					SELECT id FROM scrape_jobs
					WHERE status = 'RUNNING'
					  AND created_at < $3
					ORDER BY created_at
					LIMIT $4
				)
			`, msg, now, now.Add(-params.MaxAge), batch)
			if err != nil {
				return fmt.Errorf("fail stale running jobs: %w", err)
			}

			ra, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			rowsAffected = ra
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	return rowsAffected, nil
}
