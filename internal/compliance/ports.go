package compliance

import (
	"context"
	"time"

	"carewatch/pkg/types"
)

type WorkerDocuments interface {
	DocumentsForWorker(ctx context.Context, workerID string) ([]types.ComplianceDocument, error)
}

type ExpiringDocuments interface {
	DocumentsExpiringWithin(ctx context.Context, from time.Time, windowDays int) ([]types.ComplianceDocument, error)
}

type CreatedDocuments interface {
	DocumentsCreatedBetween(ctx context.Context, start, end time.Time) ([]types.ComplianceDocument, error)
}

type WorkerLookup interface {
	Worker(ctx context.Context, workerID string) (*types.Worker, error)
}

type WorkerRoster interface {
	ListWorkerIDs(ctx context.Context) ([]string, error)
}

type NotificationStore interface {
	Insert(ctx context.Context, notification *types.Notification) error
}

// DispatchLog is the audit trail of sent reminders keyed by document and
// offset. Record reports false when the pair is already taken.
type DispatchLog interface {
	Exists(ctx context.Context, documentID string, offsetDays int) (bool, error)
	Record(ctx context.Context, entry *types.DispatchLogEntry) (bool, error)
	Release(ctx context.Context, documentID string, offsetDays int) error
}

// Alerter delivers an expiry reminder outside the application (email, SMS).
type Alerter interface {
	SendExpiryAlert(ctx context.Context, alert types.ExpiryAlert) error
}
