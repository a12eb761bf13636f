package store

import (
	"context"
	"fmt"
	"time"

	"carewatch/internal/utils"
	"carewatch/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const workerTableName = "carewatch.workers"

var workerColumns = utils.StructTagValues(types.Worker{})

type WorkerRepository struct {
	db Querier
}

func NewWorkerRepository(db Querier) *WorkerRepository {
	return &WorkerRepository{db: db}
}

func (r *WorkerRepository) Worker(ctx context.Context, workerID string) (*types.Worker, error) {
	query, args, err := psql().
		Select(workerColumns...).
		From(workerTableName).
		Where(sq.Eq{"id": workerID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate worker query: %w", err)
	}

	var worker types.Worker
	err = pgxscan.Get(ctx, r.db, &worker, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to fetch worker: %w", err)
	}

	return &worker, nil
}

// ListWorkerIDs returns the id of every worker on the roster.
func (r *WorkerRepository) ListWorkerIDs(ctx context.Context) ([]string, error) {
	query, args, err := psql().
		Select("id").
		From(workerTableName).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate worker ids query: %w", err)
	}

	var ids []string
	err = pgxscan.Select(ctx, r.db, &ids, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list worker ids: %w", err)
	}

	return ids, nil
}

func (r *WorkerRepository) Create(ctx context.Context, worker *types.Worker) error {
	now := time.Now()
	worker.CreatedAt = now
	worker.UpdatedAt = now

	query, args, err := psql().
		Insert(workerTableName).
		SetMap(utils.StructToMap(worker)).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create worker query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	return nil
}
