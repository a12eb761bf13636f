package store

import (
	"context"
	"fmt"

	"carewatch/internal/utils"
	"carewatch/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const dispatchLogTableName = "carewatch.dispatch_log"

var dispatchLogColumns = utils.StructTagValues(types.DispatchLogEntry{})

type DispatchLogRepository struct {
	db Querier
}

func NewDispatchLogRepository(db Querier) *DispatchLogRepository {
	return &DispatchLogRepository{db: db}
}

// Exists reports whether a reminder was already logged for the document at
// the given offset.
func (r *DispatchLogRepository) Exists(ctx context.Context, documentID string, offsetDays int) (bool, error) {
	inner, args, err := psql().
		Select("1").
		From(dispatchLogTableName).
		Where(sq.Eq{"document_id": documentID, "offset_days": offsetDays}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate dispatch log lookup query: %w", err)
	}

	var exists bool
	err = r.db.QueryRow(ctx, "SELECT EXISTS ("+inner+")", args...).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up dispatch log: %w", err)
	}

	return exists, nil
}

// Record appends entry unless one already exists for the same document and
// offset. inserted is false when the unique constraint swallowed the write.
func (r *DispatchLogRepository) Record(ctx context.Context, entry *types.DispatchLogEntry) (inserted bool, err error) {
	if entry.ID == "" {
		entry.ID = utils.PrefixedID("dsp")
	}

	query, args, err := psql().
		Insert(dispatchLogTableName).
		Columns(dispatchLogColumns...).
		Values(entry.ID, entry.DocumentID, entry.OffsetDays, entry.SentAt).
		Suffix("ON CONFLICT (document_id, offset_days) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate dispatch log insert query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to record dispatch: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Release removes the entry for the document and offset, returning the pair
// to an unsent state.
func (r *DispatchLogRepository) Release(ctx context.Context, documentID string, offsetDays int) error {
	query, args, err := psql().
		Delete(dispatchLogTableName).
		Where(sq.Eq{"document_id": documentID, "offset_days": offsetDays}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate dispatch log delete query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to release dispatch: %w", err)
	}

	return nil
}

// EntriesForDocument lists every reminder logged for the document, oldest
// first.
func (r *DispatchLogRepository) EntriesForDocument(ctx context.Context, documentID string) ([]types.DispatchLogEntry, error) {
	query, args, err := psql().
		Select(dispatchLogColumns...).
		From(dispatchLogTableName).
		Where(sq.Eq{"document_id": documentID}).
		OrderBy("sent_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate dispatch log entries query: %w", err)
	}

	var entries []types.DispatchLogEntry
	err = pgxscan.Select(ctx, r.db, &entries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dispatch log entries: %w", err)
	}

	return entries, nil
}
