package compliance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carewatch/internal/metrics"
	"carewatch/pkg/types"

	"github.com/sirupsen/logrus"
)

const (
	DefaultAlertTimeout = 10 * time.Second
	DefaultWriteTimeout = 5 * time.Second
)

var ErrNoContactAddress = errors.New("worker has no contact address")

// Dispatcher sends staged expiry reminders. A reminder goes out only when a
// document is exactly one of the policy's offsets from expiry and this
// dispatcher is the one that logs the document and offset first.
type Dispatcher struct {
	workers       WorkerLookup
	notifications NotificationStore
	dispatchLog   DispatchLog
	alerter       Alerter
	clock         Clock
	alertTimeout  time.Duration
	logger        logrus.FieldLogger
	metrics       *metrics.Metrics
}

func NewDispatcher(
	workers WorkerLookup,
	notifications NotificationStore,
	dispatchLog DispatchLog,
	alerter Alerter,
	clock Clock,
	alertTimeout time.Duration,
	logger logrus.FieldLogger,
	m *metrics.Metrics,
) *Dispatcher {
	if alertTimeout <= 0 {
		alertTimeout = DefaultAlertTimeout
	}

	return &Dispatcher{
		workers:       workers,
		notifications: notifications,
		dispatchLog:   dispatchLog,
		alerter:       alerter,
		clock:         clock,
		alertTimeout:  alertTimeout,
		logger:        logger,
		metrics:       m,
	}
}

// DispatchAll considers each document in turn. A failure on one document is
// recorded in its result and does not stop the batch. Cancelling ctx stops
// the batch before the next document; unvisited documents get no result.
func (d *Dispatcher) DispatchAll(ctx context.Context, docs []types.ComplianceDocument) []types.DispatchResult {
	results := make([]types.DispatchResult, 0, len(docs))
	for _, doc := range docs {
		if ctx.Err() != nil {
			d.logger.WithField("remaining", len(docs)-len(results)).Warn("dispatch interrupted")
			break
		}
		results = append(results, d.Dispatch(ctx, doc))
	}
	return results
}

func (d *Dispatcher) Dispatch(ctx context.Context, doc types.ComplianceDocument) types.DispatchResult {
	result := types.DispatchResult{
		DocumentID: doc.ID,
		WorkerID:   doc.WorkerID,
		Outcome:    types.OutcomeNotDue,
	}

	if doc.ExpiryDate == nil {
		d.metrics.ObserveDispatch(string(result.Outcome))
		return result
	}

	days := DaysUntil(d.clock.Today(), *doc.ExpiryDate)
	result.DaysUntilExpiry = days
	if !IsReminderOffset(days) {
		d.metrics.ObserveDispatch(string(result.Outcome))
		return result
	}
	result.OffsetDays = days

	logger := d.logger.WithFields(logrus.Fields{
		"document_id": doc.ID,
		"worker_id":   doc.WorkerID,
		"offset_days": days,
	})

	err := d.send(ctx, doc, days, logger, &result)
	if err != nil {
		result.Outcome = types.OutcomeFailed
		result.Err = err
		logger.WithError(err).Error("failed to dispatch expiry reminder")
	}

	d.metrics.ObserveDispatch(string(result.Outcome))
	return result
}

func (d *Dispatcher) send(ctx context.Context, doc types.ComplianceDocument, days int, logger logrus.FieldLogger, result *types.DispatchResult) error {
	exists, err := d.dispatchLog.Exists(ctx, doc.ID, days)
	if err != nil {
		return fmt.Errorf("failed to check dispatch log: %w", err)
	}
	if exists {
		result.Outcome = types.OutcomeDuplicate
		logger.Debug("reminder already dispatched for offset")
		return nil
	}

	worker, err := d.workers.Worker(ctx, doc.WorkerID)
	if err != nil {
		return fmt.Errorf("failed to resolve worker: %w", err)
	}
	if worker.Email == nil || *worker.Email == "" {
		return ErrNoContactAddress
	}

	// The log entry is the claim on this offset. Only the dispatcher whose
	// insert lands may send.
	claimed, err := d.dispatchLog.Record(ctx, &types.DispatchLogEntry{
		DocumentID: doc.ID,
		OffsetDays: days,
		SentAt:     d.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to claim dispatch: %w", err)
	}
	if !claimed {
		result.Outcome = types.OutcomeDuplicate
		logger.Debug("reminder claimed by another dispatch")
		return nil
	}

	alert := types.ExpiryAlert{
		RecipientAddress: *worker.Email,
		RecipientName:    worker.DisplayName(),
		DocumentName:     doc.Name,
		Category:         doc.Category,
		DaysUntilExpiry:  days,
		ExpiryDate:       dateOf(*doc.ExpiryDate),
	}

	alertCtx, cancel := context.WithTimeout(ctx, d.alertTimeout)
	err = d.alerter.SendExpiryAlert(alertCtx, alert)
	cancel()
	if err != nil {
		d.release(ctx, doc.ID, days, logger)
		return fmt.Errorf("failed to send expiry alert: %w", err)
	}

	// The alert is out; the notification is written even if the scan is
	// being cancelled.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultWriteTimeout)
	defer cancel()

	notification := &types.Notification{
		UserID:   doc.WorkerID,
		Title:    reminderTitle(days),
		Message:  reminderMessage(doc, days),
		Priority: PriorityFor(days),
	}
	if err := d.notifications.Insert(writeCtx, notification); err != nil {
		return fmt.Errorf("alert sent but failed to write notification: %w", err)
	}

	result.Outcome = types.OutcomeSent
	logger.Info("expiry reminder dispatched")
	return nil
}

// release drops the claim after a failed send so a later scan can retry the
// offset. A claim that cannot be dropped suppresses the reminder.
func (d *Dispatcher) release(ctx context.Context, documentID string, days int, logger logrus.FieldLogger) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultWriteTimeout)
	defer cancel()

	if err := d.dispatchLog.Release(releaseCtx, documentID, days); err != nil {
		logger.WithError(err).Error("failed to release dispatch claim, reminder will not be retried")
	}
}

// PriorityFor maps days until expiry to an in-app notification priority.
func PriorityFor(daysUntilExpiry int) types.NotificationPriority {
	if daysUntilExpiry <= HighPriorityThresholdDays {
		return types.PriorityHigh
	}
	return types.PriorityMedium
}

func reminderTitle(days int) string {
	if days == 1 {
		return "Document expires tomorrow"
	}
	return fmt.Sprintf("Document expires in %d days", days)
}

func reminderMessage(doc types.ComplianceDocument, days int) string {
	return fmt.Sprintf("Your %s (%s) expires on %s, %s. Upload a renewed copy to stay compliant.",
		Label(doc.Category), doc.Name, dateOf(*doc.ExpiryDate).Format("2 January 2006"), dayPhrase(days))
}

func dayPhrase(days int) string {
	if days == 1 {
		return "in 1 day"
	}
	return fmt.Sprintf("in %d days", days)
}
