package compliance

import (
	"context"
	"fmt"
	"time"

	"carewatch/internal/metrics"
	"carewatch/pkg/types"

	"github.com/sirupsen/logrus"
)

// EvaluationErrorIssue is the only issue on a verdict produced when the
// worker's documents could not be read.
const EvaluationErrorIssue = "error checking compliance status"

type Evaluator struct {
	documents WorkerDocuments
	clock     Clock
	logger    logrus.FieldLogger
	metrics   *metrics.Metrics
}

func NewEvaluator(documents WorkerDocuments, clock Clock, logger logrus.FieldLogger, m *metrics.Metrics) *Evaluator {
	return &Evaluator{
		documents: documents,
		clock:     clock,
		logger:    logger,
		metrics:   m,
	}
}

// Evaluate computes today's verdict for a worker. It never fails: when the
// document store is unreachable the verdict is a conservative non-compliant
// one carrying EvaluationErrorIssue.
func (e *Evaluator) Evaluate(ctx context.Context, workerID string) types.ComplianceVerdict {
	docs, err := e.documents.DocumentsForWorker(ctx, workerID)
	if err != nil {
		e.logger.WithError(err).WithField("worker_id", workerID).Error("failed to resolve worker documents")
		e.metrics.ObserveEvaluation(metrics.EvaluationError)
		return types.ComplianceVerdict{
			WorkerID:  workerID,
			Compliant: false,
			Issues:    []string{EvaluationErrorIssue},
		}
	}

	verdict := EvaluateDocuments(workerID, docs, e.clock.Today())
	if verdict.Compliant {
		e.metrics.ObserveEvaluation(metrics.EvaluationCompliant)
	} else {
		e.metrics.ObserveEvaluation(metrics.EvaluationNonCompliant)
	}

	return verdict
}

// EvaluateDocuments is the pure form of Evaluate. When a worker holds several
// documents of one category only the most recently created is considered.
func EvaluateDocuments(workerID string, docs []types.ComplianceDocument, today time.Time) types.ComplianceVerdict {
	today = dateOf(today)
	verdict := types.ComplianceVerdict{
		WorkerID: workerID,
		Issues:   []string{},
	}

	latest := latestByCategory(docs)

	for _, entry := range requiredCategories {
		doc, ok := latest[entry.Category]
		if !ok {
			verdict.Issues = append(verdict.Issues, fmt.Sprintf("missing required document: %s", entry.Label))
			continue
		}

		switch doc.Status {
		case types.StatusRejected:
			verdict.Issues = append(verdict.Issues, fmt.Sprintf("document rejected: %s", doc.Name))
		case types.StatusVerified:
			applyExpiry(&verdict, doc, today)
		default:
			// pending, or anything the verifier has not settled
			verdict.Issues = append(verdict.Issues, fmt.Sprintf("document pending verification: %s", doc.Name))
		}
	}

	for _, category := range types.AllCategories {
		if IsRequired(category) {
			continue
		}
		doc, ok := latest[category]
		if !ok || doc.Status != types.StatusVerified {
			continue
		}
		applyExpiry(&verdict, doc, today)
	}

	verdict.Compliant = len(verdict.Issues) == 0 && verdict.ExpiredDocs == 0

	return verdict
}

func applyExpiry(verdict *types.ComplianceVerdict, doc types.ComplianceDocument, today time.Time) {
	if doc.ExpiryDate == nil {
		return
	}

	days := DaysUntil(today, *doc.ExpiryDate)
	switch {
	case days < 0:
		verdict.ExpiredDocs++
		verdict.Issues = append(verdict.Issues, fmt.Sprintf("document expired: %s", doc.Name))
	case days <= ExpiringWindowDays:
		verdict.ExpiringDocs++
	}
}

func latestByCategory(docs []types.ComplianceDocument) map[types.DocumentCategory]types.ComplianceDocument {
	latest := make(map[types.DocumentCategory]types.ComplianceDocument, len(docs))
	for _, doc := range docs {
		current, ok := latest[doc.Category]
		if !ok || newer(doc, current) {
			latest[doc.Category] = doc
		}
	}
	return latest
}

func newer(a, b types.ComplianceDocument) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}
