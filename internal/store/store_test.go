package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"carewatch/internal/utils"
	"carewatch/pkg/types"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func documentRows(docs ...types.ComplianceDocument) *pgxmock.Rows {
	rows := pgxmock.NewRows(documentColumns)
	for _, d := range docs {
		rows.AddRow(d.ID, d.WorkerID, d.Category, d.Name, d.Status, d.ExpiryDate, d.CreatedAt)
	}
	return rows
}

func TestDocumentRepository_DocumentsExpiringWithin(t *testing.T) {
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	expiry := from.AddDate(0, 0, 7)

	t.Run("returns rows", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT .+ FROM carewatch\.compliance_documents WHERE status = \$1 AND expiry_date IS NOT NULL AND expiry_date >= \$2 AND expiry_date <= \$3 ORDER BY expiry_date ASC, id ASC`).
			WithArgs(types.StatusVerified, from, from.AddDate(0, 0, 60)).
			WillReturnRows(documentRows(types.ComplianceDocument{
				ID:         "doc_1",
				WorkerID:   "wrk_1",
				Category:   types.CategoryFirstAid,
				Name:       "HLTAID011",
				Status:     types.StatusVerified,
				ExpiryDate: &expiry,
				CreatedAt:  from,
			}))

		docs, err := NewDocumentRepository(mock).DocumentsExpiringWithin(context.Background(), from, 60)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "doc_1", docs[0].ID)
		assert.Equal(t, types.CategoryFirstAid, docs[0].Category)
		require.NotNil(t, docs[0].ExpiryDate)
		assert.True(t, expiry.Equal(*docs[0].ExpiryDate))
	})

	t.Run("wraps query errors", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errors.New("connection refused"))

		docs, err := NewDocumentRepository(mock).DocumentsExpiringWithin(context.Background(), from, 60)
		assert.ErrorContains(t, err, "failed to fetch expiring documents")
		assert.Nil(t, docs)
	})
}

func TestDocumentRepository_DocumentsForWorker(t *testing.T) {
	now := time.Now().UTC()
	mock := newMockPool(t)
	mock.ExpectQuery(`SELECT .+ FROM carewatch\.compliance_documents WHERE worker_id = \$1 ORDER BY created_at DESC`).
		WithArgs("wrk_1").
		WillReturnRows(documentRows(
			types.ComplianceDocument{ID: "doc_2", WorkerID: "wrk_1", Category: types.CategoryCPR, Name: "CPR", Status: types.StatusPending, CreatedAt: now},
			types.ComplianceDocument{ID: "doc_1", WorkerID: "wrk_1", Category: types.CategoryCPR, Name: "CPR", Status: types.StatusRejected, CreatedAt: now.Add(-time.Hour)},
		))

	docs, err := NewDocumentRepository(mock).DocumentsForWorker(context.Background(), "wrk_1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, types.StatusPending, docs[0].Status)
	assert.Nil(t, docs[0].ExpiryDate)
}

func TestDocumentRepository_DocumentsCreatedBetween(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	mock := newMockPool(t)
	mock.ExpectQuery(`WHERE created_at >= \$1 AND created_at < \$2`).
		WithArgs(start, end).
		WillReturnRows(documentRows())

	docs, err := NewDocumentRepository(mock).DocumentsCreatedBetween(context.Background(), start, end)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentRepository_CreateDocument(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectExec(`INSERT INTO carewatch\.compliance_documents`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	doc := &types.ComplianceDocument{WorkerID: "wrk_1", Category: types.CategoryCPR, Name: "CPR", Status: types.StatusPending}
	require.NoError(t, NewDocumentRepository(mock).CreateDocument(context.Background(), doc))

	assert.Regexp(t, `^doc_`, doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestWorkerRepository_Worker(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		now := time.Now().UTC()
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT .+ FROM carewatch\.workers WHERE id = \$1 LIMIT 1`).
			WithArgs("wrk_1").
			WillReturnRows(pgxmock.NewRows(workerColumns).
				AddRow("wrk_1", utils.StringPtr("sam@example.org"), utils.StringPtr("Sam"), (*string)(nil), now, now))

		worker, err := NewWorkerRepository(mock).Worker(context.Background(), "wrk_1")
		require.NoError(t, err)
		assert.Equal(t, "sam@example.org", *worker.Email)
		assert.Equal(t, "Sam", worker.DisplayName())
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`FROM carewatch\.workers`).
			WithArgs("wrk_missing").
			WillReturnRows(pgxmock.NewRows(workerColumns))

		worker, err := NewWorkerRepository(mock).Worker(context.Background(), "wrk_missing")
		assert.ErrorIs(t, err, types.ErrWorkerNotFound)
		assert.Nil(t, worker)
	})
}

func TestWorkerRepository_ListWorkerIDs(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(`SELECT id FROM carewatch\.workers ORDER BY id ASC`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("wrk_1").AddRow("wrk_2"))

	ids, err := NewWorkerRepository(mock).ListWorkerIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"wrk_1", "wrk_2"}, ids)
}

func TestNotificationRepository_Insert(t *testing.T) {
	t.Run("stores unread", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`INSERT INTO carewatch\.notifications`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		notification := &types.Notification{UserID: "wrk_1", Title: "t", Message: "m", Priority: types.PriorityHigh, Read: true}
		require.NoError(t, NewNotificationRepository(mock).Insert(context.Background(), notification))

		assert.Regexp(t, `^ntf_`, notification.ID)
		assert.False(t, notification.Read)
	})

	t.Run("wraps errors", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`INSERT`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errors.New("check constraint"))

		err := NewNotificationRepository(mock).Insert(context.Background(), &types.Notification{UserID: "wrk_1"})
		assert.ErrorContains(t, err, "failed to insert notification for user wrk_1")
	})

	t.Run("defaults to low priority", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`INSERT INTO carewatch\.notifications`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		notification := &types.Notification{UserID: "wrk_1", Title: "t", Message: "m"}
		require.NoError(t, NewNotificationRepository(mock).Insert(context.Background(), notification))
		assert.Equal(t, types.PriorityLow, notification.Priority)
	})

	t.Run("rejects unknown priority", func(t *testing.T) {
		mock := newMockPool(t)

		err := NewNotificationRepository(mock).Insert(context.Background(), &types.Notification{UserID: "wrk_1", Priority: "urgent"})
		assert.ErrorContains(t, err, `invalid notification priority "urgent"`)
	})
}

func TestDispatchLogRepository_Exists(t *testing.T) {
	for _, want := range []bool{true, false} {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM carewatch\.dispatch_log WHERE document_id = \$1 AND offset_days = \$2\)`).
			WithArgs("doc_1", 7).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(want))

		got, err := NewDispatchLogRepository(mock).Exists(context.Background(), "doc_1", 7)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestDispatchLogRepository_Record(t *testing.T) {
	sentAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		rowsAffected int64
		wantInserted bool
	}{
		{name: "first dispatch", rowsAffected: 1, wantInserted: true},
		{name: "conflict swallowed", rowsAffected: 0, wantInserted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			mock.ExpectExec(`INSERT INTO carewatch\.dispatch_log \(id,document_id,offset_days,sent_at\) VALUES \(\$1,\$2,\$3,\$4\) ON CONFLICT \(document_id, offset_days\) DO NOTHING`).
				WithArgs(pgxmock.AnyArg(), "doc_1", 7, sentAt).
				WillReturnResult(pgxmock.NewResult("INSERT", tt.rowsAffected))

			entry := &types.DispatchLogEntry{DocumentID: "doc_1", OffsetDays: 7, SentAt: sentAt}
			inserted, err := NewDispatchLogRepository(mock).Record(context.Background(), entry)

			require.NoError(t, err)
			assert.Equal(t, tt.wantInserted, inserted)
			assert.Regexp(t, `^dsp_`, entry.ID)
		})
	}
}

func TestDispatchLogRepository_Release(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectExec(`DELETE FROM carewatch\.dispatch_log WHERE document_id = \$1 AND offset_days = \$2`).
		WithArgs("doc_1", 7).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := NewDispatchLogRepository(mock).Release(context.Background(), "doc_1", 7)
	require.NoError(t, err)
}

func TestDispatchLogRepository_EntriesForDocument(t *testing.T) {
	sentAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("returns entries in order", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT id, document_id, offset_days, sent_at FROM carewatch\.dispatch_log WHERE document_id = \$1 ORDER BY sent_at ASC`).
			WithArgs("doc_1").
			WillReturnRows(pgxmock.NewRows(dispatchLogColumns).
				AddRow("dsp_a", "doc_1", 30, sentAt.AddDate(0, 0, -16)).
				AddRow("dsp_b", "doc_1", 14, sentAt))

		entries, err := NewDispatchLogRepository(mock).EntriesForDocument(context.Background(), "doc_1")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, 30, entries[0].OffsetDays)
		assert.Equal(t, "dsp_b", entries[1].ID)
		assert.Equal(t, sentAt, entries[1].SentAt)
	})

	t.Run("wraps errors", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT .+ FROM carewatch\.dispatch_log`).
			WithArgs("doc_1").
			WillReturnError(errors.New("connection reset"))

		_, err := NewDispatchLogRepository(mock).EntriesForDocument(context.Background(), "doc_1")
		assert.ErrorContains(t, err, "failed to fetch dispatch log entries")
	})
}
