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

const documentTableName = "carewatch.compliance_documents"

var documentColumns = utils.StructTagValues(types.ComplianceDocument{})

type DocumentRepository struct {
	db Querier
}

func NewDocumentRepository(db Querier) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// DocumentsExpiringWithin returns verified documents across all workers whose
// expiry date falls within [from, from+windowDays], soonest first.
func (r *DocumentRepository) DocumentsExpiringWithin(ctx context.Context, from time.Time, windowDays int) ([]types.ComplianceDocument, error) {
	to := from.AddDate(0, 0, windowDays)

	query, args, err := psql().
		Select(documentColumns...).
		From(documentTableName).
		Where(sq.Eq{"status": types.StatusVerified}).
		Where(sq.NotEq{"expiry_date": nil}).
		Where(sq.GtOrEq{"expiry_date": from}).
		Where(sq.LtOrEq{"expiry_date": to}).
		OrderBy("expiry_date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate expiring documents query: %w", err)
	}

	var docs []types.ComplianceDocument
	err = pgxscan.Select(ctx, r.db, &docs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expiring documents: %w", err)
	}

	return docs, nil
}

// DocumentsForWorker returns every document the worker owns regardless of
// status, newest first.
func (r *DocumentRepository) DocumentsForWorker(ctx context.Context, workerID string) ([]types.ComplianceDocument, error) {
	query, args, err := psql().
		Select(documentColumns...).
		From(documentTableName).
		Where(sq.Eq{"worker_id": workerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate worker documents query: %w", err)
	}

	var docs []types.ComplianceDocument
	err = pgxscan.Select(ctx, r.db, &docs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents for worker %s: %w", workerID, err)
	}

	return docs, nil
}

// DocumentsCreatedBetween returns documents created in [start, end).
func (r *DocumentRepository) DocumentsCreatedBetween(ctx context.Context, start, end time.Time) ([]types.ComplianceDocument, error) {
	query, args, err := psql().
		Select(documentColumns...).
		From(documentTableName).
		Where(sq.GtOrEq{"created_at": start}).
		Where(sq.Lt{"created_at": end}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate created documents query: %w", err)
	}

	var docs []types.ComplianceDocument
	err = pgxscan.Select(ctx, r.db, &docs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents created between %s and %s: %w", start.Format(time.DateOnly), end.Format(time.DateOnly), err)
	}

	return docs, nil
}

// CreateDocument inserts a new document record
func (r *DocumentRepository) CreateDocument(ctx context.Context, doc *types.ComplianceDocument) error {
	if doc.ID == "" {
		doc.ID = utils.PrefixedID("doc")
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	query, args, err := psql().
		Insert(documentTableName).
		SetMap(utils.StructToMap(doc)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create document query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create document")
}
