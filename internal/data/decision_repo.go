package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/target/scrapediff/internal/core"
	"github.com/target/scrapediff/internal/data/pgxutil"
	"github.com/target/scrapediff/internal/domain/model"
)

// DecisionRepo applies moderation decisions to event flags.
type DecisionRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewDecisionRepo creates a new DecisionRepo instance with the given database connection.
func NewDecisionRepo(db *sql.DB) *DecisionRepo {
	return &DecisionRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewDecisionRepoWithTimeProvider creates a DecisionRepo with a custom TimeProvider (useful for testing).
func NewDecisionRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *DecisionRepo {
	return &DecisionRepo{DB: db, timeProvider: tp}
}

// Apply writes all decision batches in one transaction. Batches run in
// model.DecisionLists order; the first failure rolls back every batch.
func (r *DecisionRepo) Apply(ctx context.Context, params core.ApplyDecisionsParams) (map[model.DecisionList]int, error) {
	if err := params.Decisions.Validate(); err != nil {
		return nil, err
	}
	updated := make(map[model.DecisionList]int, len(model.DecisionLists))
	if params.Decisions.IsEmpty() {
		return updated, nil
	}

	now := r.timeProvider.Now().UTC()
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Opts: &sql.TxOptions{Isolation: sql.LevelReadCommitted},
		Fn: func(tx pgx.Tx) error {
			if params.SourceID != "" {
				if err := checkOwnership(ctx, tx, params.SourceID, params.Decisions.AllIDs()); err != nil {
					return err
				}
			}
			for _, list := range model.DecisionLists {
				ids := params.Decisions.IDs(list)
				if len(ids) == 0 {
					continue
				}
				n, err := applyBatch(ctx, tx, batchParams{List: list, IDs: ids, Now: now})
				if err != nil {
					return fmt.Errorf("apply %s: %w", list, err)
				}
				updated[list] = n
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

type batchParams struct {
	List model.DecisionList
	IDs  []string
	Now  time.Time
}

func applyBatch(ctx context.Context, tx pgx.Tx, p batchParams) (int, error) {
	uids, err := toUUIDs(p.IDs)
	if err != nil {
		return 0, err
	}

	// updated_at moves only when a flag changes.
	mut := p.List.Mutation()
	args := []any{uids, p.Now}
	var setParts, changed []string
	if mut.IsApproved != nil {
		args = append(args, *mut.IsApproved)
		setParts = append(setParts, fmt.Sprintf("is_approved = $%d", len(args)))
		changed = append(changed, fmt.Sprintf("is_approved IS DISTINCT FROM $%d", len(args)))
	}
	if mut.IsDeleted != nil {
		args = append(args, *mut.IsDeleted)
		setParts = append(setParts, fmt.Sprintf("is_deleted = $%d", len(args)))
		changed = append(changed, fmt.Sprintf("is_deleted IS DISTINCT FROM $%d", len(args)))
	}
	if len(setParts) == 0 {
		return 0, fmt.Errorf("no flag mutation for %s", p.List)
	}
	setParts = append(setParts,
		"updated_at = CASE WHEN "+strings.Join(changed, " OR ")+" THEN $2 ELSE updated_at END")

	ct, err := tx.Exec(ctx, `UPDATE events SET `+strings.Join(setParts, ", ")+` WHERE id = ANY($1)`, args...)
	if err != nil {
		return 0, err
	}
	return int(ct.RowsAffected()), nil
}

// checkOwnership fails when any referenced event belongs to a job of another source.
func checkOwnership(ctx context.Context, tx pgx.Tx, sourceID string, ids []string) error {
	uids, err := toUUIDs(ids)
	if err != nil {
		return err
	}
	src, err := uuid.Parse(sourceID)
	if err != nil {
		return ErrEventSourceNotFound
	}

	var foreign int
	err = tx.QueryRow(ctx, `
		SELECT count(*)
		FROM events e
		JOIN scrape_jobs j ON j.id = e.scrape_job_id
		WHERE e.id = ANY($1) AND j.event_source_id <> $2`, uids, src).Scan(&foreign)
	if err != nil {
		return fmt.Errorf("check event ownership: %w", err)
	}
	if foreign > 0 {
		return fmt.Errorf("%w: %d event(s) belong to another source", ErrForeignEvent, foreign)
	}
	return nil
}

func toUUIDs(ids []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ids))
	for _, s := range ids {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid in event ids: %w", err)
		}
		out = append(out, id)
	}
	return out, nil
}
