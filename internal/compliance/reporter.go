package compliance

import (
	"context"
	"fmt"
	"time"

	"carewatch/internal/utils"
	"carewatch/pkg/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const DefaultReportConcurrency = 8

// WorkerEvaluator is satisfied by *Evaluator.
type WorkerEvaluator interface {
	Evaluate(ctx context.Context, workerID string) types.ComplianceVerdict
}

// Reporter aggregates verdicts across the roster. It evaluates every worker
// on each call, so cost grows with workers × documents per worker.
type Reporter struct {
	roster      WorkerRoster
	documents   CreatedDocuments
	evaluator   WorkerEvaluator
	clock       Clock
	concurrency int
	logger      logrus.FieldLogger
}

func NewReporter(roster WorkerRoster, documents CreatedDocuments, evaluator WorkerEvaluator, clock Clock, concurrency int, logger logrus.FieldLogger) *Reporter {
	if concurrency <= 0 {
		concurrency = DefaultReportConcurrency
	}

	return &Reporter{
		roster:      roster,
		documents:   documents,
		evaluator:   evaluator,
		clock:       clock,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Summary reports on the current roster plus documents created on the
// calendar days start through end inclusive, read in the clock's location.
func (r *Reporter) Summary(ctx context.Context, start, end time.Time) (*types.ComplianceSummary, error) {
	start, end = dateOf(start), dateOf(end)
	if end.Before(start) {
		return nil, types.ErrInvalidDateRange
	}

	summary := &types.ComplianceSummary{Start: start, End: end}

	workerIDs, err := r.roster.ListWorkerIDs(ctx)
	if err != nil {
		r.logger.WithError(err).Error("failed to list workers for compliance report")
		summary.Partial = true
		workerIDs = nil
	}

	verdicts, err := r.evaluateAll(ctx, workerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate workers: %w", err)
	}

	for _, verdict := range verdicts {
		summary.TotalWorkers++
		if verdict.Compliant {
			summary.CompliantWorkers++
		} else {
			summary.NonCompliantWorkers++
		}
		summary.TotalExpiring += verdict.ExpiringDocs
		summary.TotalExpired += verdict.ExpiredDocs

		if len(verdict.Issues) == 1 && verdict.Issues[0] == EvaluationErrorIssue {
			summary.Partial = true
		}
	}

	from, until := r.localMidnight(start), r.localMidnight(end.AddDate(0, 0, 1))
	created, err := r.documents.DocumentsCreatedBetween(ctx, from, until)
	if err != nil {
		r.logger.WithError(err).Error("failed to count documents pending verification")
		summary.Partial = true
	}
	for _, doc := range created {
		if doc.Status == types.StatusPending {
			summary.PendingVerification++
		}
	}

	summary.ComplianceRate = ComplianceRate(summary.CompliantWorkers, summary.TotalWorkers)

	return summary, nil
}

func (r *Reporter) localMidnight(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.clock.Location())
}

func (r *Reporter) evaluateAll(ctx context.Context, workerIDs []string) ([]types.ComplianceVerdict, error) {
	verdicts := make([]types.ComplianceVerdict, len(workerIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, workerID := range workerIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			verdicts[i] = r.evaluator.Evaluate(gctx, workerID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return verdicts, nil
}

// ComplianceRate is compliant/total as a percentage rounded to two places,
// and 0 for an empty roster.
func ComplianceRate(compliant, total int) float64 {
	if total == 0 {
		return 0
	}
	return utils.RoundFloat64(float64(compliant)/float64(total)*100, 2)
}
