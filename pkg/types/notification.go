package types

import "time"

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)

func (p NotificationPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Notification is an in-app notification shown on the worker's dashboard.
type Notification struct {
	ID        string               `db:"id" json:"id"`
	UserID    string               `db:"user_id" json:"userId"`
	Title     string               `db:"title" json:"title"`
	Message   string               `db:"message" json:"message"`
	Priority  NotificationPriority `db:"priority" json:"priority"`
	Read      bool                 `db:"read" json:"read"`
	CreatedAt time.Time            `db:"created_at" json:"createdAt"`
}

// DispatchLogEntry records that a reminder went out for a document at a
// given offset. At most one entry exists per (DocumentID, OffsetDays).
type DispatchLogEntry struct {
	ID         string    `db:"id" json:"id"`
	DocumentID string    `db:"document_id" json:"documentId"`
	OffsetDays int       `db:"offset_days" json:"offsetDays"`
	SentAt     time.Time `db:"sent_at" json:"sentAt"`
}

// ExpiryAlert is the payload handed to an outbound alert transport.
type ExpiryAlert struct {
	RecipientAddress string
	RecipientName    string
	DocumentName     string
	Category         DocumentCategory
	DaysUntilExpiry  int
	ExpiryDate       time.Time
}
