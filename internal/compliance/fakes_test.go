package compliance

import (
	"context"
	"sync"
	"time"

	"carewatch/internal/utils"
	"carewatch/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var testToday = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func fixedClock(now time.Time) Clock {
	return Clock{loc: time.UTC, now: func() time.Time { return now }}
}

func nullLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

// day returns the calendar date offset days from testToday.
func day(offset int) *time.Time {
	return utils.TimePtr(dateOf(testToday).AddDate(0, 0, offset))
}

type fakeDocuments struct {
	mu    sync.Mutex
	docs  []types.ComplianceDocument
	err   error
	calls int

	// when set, DocumentsExpiringWithin signals entered and then blocks
	// until block is closed
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeDocuments) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeDocuments) DocumentsForWorker(ctx context.Context, workerID string) ([]types.ComplianceDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []types.ComplianceDocument
	for _, d := range f.docs {
		if d.WorkerID == workerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocuments) DocumentsExpiringWithin(ctx context.Context, from time.Time, windowDays int) ([]types.ComplianceDocument, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	to := from.AddDate(0, 0, windowDays)
	var out []types.ComplianceDocument
	for _, d := range f.docs {
		if d.Status != types.StatusVerified || d.ExpiryDate == nil {
			continue
		}
		if d.ExpiryDate.Before(from) || d.ExpiryDate.After(to) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDocuments) DocumentsCreatedBetween(ctx context.Context, start, end time.Time) ([]types.ComplianceDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []types.ComplianceDocument
	for _, d := range f.docs {
		if !d.CreatedAt.Before(start) && d.CreatedAt.Before(end) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeWorkers struct {
	workers map[string]*types.Worker
	err     error
}

func newFakeWorkers(workers ...*types.Worker) *fakeWorkers {
	f := &fakeWorkers{workers: map[string]*types.Worker{}}
	for _, w := range workers {
		f.workers[w.ID] = w
	}
	return f
}

func (f *fakeWorkers) Worker(ctx context.Context, workerID string) (*types.Worker, error) {
	if f.err != nil {
		return nil, f.err
	}
	w, ok := f.workers[workerID]
	if !ok {
		return nil, types.ErrWorkerNotFound
	}
	return w, nil
}

func (f *fakeWorkers) ListWorkerIDs(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]string, 0, len(f.workers))
	for id := range f.workers {
		ids = append(ids, id)
	}
	return ids, nil
}

type dispatchKey struct {
	documentID string
	offset     int
}

type fakeDispatchLog struct {
	mu         sync.Mutex
	entries    map[dispatchKey]types.DispatchLogEntry
	existsErr  error
	recordErr  error
	releaseErr error
}

func newFakeDispatchLog() *fakeDispatchLog {
	return &fakeDispatchLog{entries: map[dispatchKey]types.DispatchLogEntry{}}
}

func (f *fakeDispatchLog) Exists(ctx context.Context, documentID string, offsetDays int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.entries[dispatchKey{documentID, offsetDays}]
	return ok, nil
}

func (f *fakeDispatchLog) Record(ctx context.Context, entry *types.DispatchLogEntry) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return false, f.recordErr
	}
	key := dispatchKey{entry.DocumentID, entry.OffsetDays}
	if _, ok := f.entries[key]; ok {
		return false, nil
	}
	f.entries[key] = *entry
	return true, nil
}

func (f *fakeDispatchLog) Release(ctx context.Context, documentID string, offsetDays int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.releaseErr != nil {
		return f.releaseErr
	}
	delete(f.entries, dispatchKey{documentID, offsetDays})
	return nil
}

func (f *fakeDispatchLog) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

type fakeNotifications struct {
	mu    sync.Mutex
	items []types.Notification
	err   error
}

func (f *fakeNotifications) Insert(ctx context.Context, notification *types.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.items = append(f.items, *notification)
	return nil
}

func (f *fakeNotifications) all() []types.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Notification(nil), f.items...)
}

type fakeAlerter struct {
	mu   sync.Mutex
	sent []types.ExpiryAlert
	err  error

	// when set, each send waits this long or until ctx is done
	delay time.Duration

	// runs after a successful send
	afterSend func()
}

func (f *fakeAlerter) SendExpiryAlert(ctx context.Context, alert types.ExpiryAlert) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	if f.err != nil {
		f.mu.Unlock()
		return f.err
	}
	f.sent = append(f.sent, alert)
	f.mu.Unlock()

	if f.afterSend != nil {
		f.afterSend()
	}
	return nil
}

func (f *fakeAlerter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func worker(id string) *types.Worker {
	return &types.Worker{
		ID:         id,
		Email:      utils.StringPtr(id + "@example.org"),
		GivenName:  utils.StringPtr("Worker"),
		FamilyName: utils.StringPtr(id),
	}
}

func verifiedDoc(id, workerID string, category types.DocumentCategory, expiry *time.Time) types.ComplianceDocument {
	return types.ComplianceDocument{
		ID:         id,
		WorkerID:   workerID,
		Category:   category,
		Name:       string(category) + " " + id,
		Status:     types.StatusVerified,
		ExpiryDate: expiry,
		CreatedAt:  testToday.AddDate(0, -6, 0),
	}
}

// compliantSet returns one verified, far-from-expiry document for every
// required category.
func compliantSet(workerID string) []types.ComplianceDocument {
	docs := make([]types.ComplianceDocument, 0, len(requiredCategories))
	for _, entry := range requiredCategories {
		docs = append(docs, verifiedDoc(workerID+"-"+string(entry.Category), workerID, entry.Category, day(365)))
	}
	return docs
}
