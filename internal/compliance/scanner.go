package compliance

import (
	"context"
	"fmt"

	"carewatch/pkg/types"

	"github.com/sirupsen/logrus"
)

// Scanner finds verified documents across the whole roster that expire
// within ScanLookaheadDays. It feeds reminders only; verdicts come from the
// Evaluator.
type Scanner struct {
	documents ExpiringDocuments
	clock     Clock
	logger    logrus.FieldLogger
}

func NewScanner(documents ExpiringDocuments, clock Clock, logger logrus.FieldLogger) *Scanner {
	return &Scanner{documents: documents, clock: clock, logger: logger}
}

// Scan returns the documents to consider for reminders. On a store failure it
// returns an empty slice alongside the error so callers can carry on as if
// nothing was found.
func (s *Scanner) Scan(ctx context.Context) ([]types.ComplianceDocument, error) {
	today := s.clock.Today()

	docs, err := s.documents.DocumentsExpiringWithin(ctx, today, ScanLookaheadDays)
	if err != nil {
		return []types.ComplianceDocument{}, fmt.Errorf("failed to scan for expiring documents: %w", err)
	}

	out := make([]types.ComplianceDocument, 0, len(docs))
	dropped := map[string]int{}
	for _, doc := range docs {
		switch {
		case !doc.Status.Valid():
			dropped["unknown_status"]++
			continue
		case doc.Status != types.StatusVerified:
			dropped["unverified"]++
			continue
		case doc.ExpiryDate == nil:
			dropped["no_expiry"]++
			continue
		}
		days := DaysUntil(today, *doc.ExpiryDate)
		if days < 0 || days > ScanLookaheadDays {
			dropped["outside_window"]++
			continue
		}
		if !doc.Category.Valid() {
			s.logger.WithFields(logrus.Fields{
				"document_id": doc.ID,
				"category":    doc.Category,
			}).Warn("scanned document has an unknown category")
		}
		out = append(out, doc)
	}

	if len(dropped) > 0 {
		fields := logrus.Fields{}
		for reason, n := range dropped {
			fields[reason] = n
		}
		s.logger.WithFields(fields).Warn("expiry scan returned documents outside the scan criteria")
	}

	return out, nil
}
