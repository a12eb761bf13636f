package store

import (
	"context"
	"fmt"
	"time"

	"carewatch/internal/utils"
	"carewatch/pkg/types"
)

const notificationTableName = "carewatch.notifications"

type NotificationRepository struct {
	db Querier
}

func NewNotificationRepository(db Querier) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Insert stores an unread in-app notification. A notification without a
// priority is stored as low.
func (r *NotificationRepository) Insert(ctx context.Context, notification *types.Notification) error {
	if notification.Priority == "" {
		notification.Priority = types.PriorityLow
	}
	if !notification.Priority.Valid() {
		return fmt.Errorf("invalid notification priority %q", notification.Priority)
	}
	if notification.ID == "" {
		notification.ID = utils.PrefixedID("ntf")
	}
	notification.Read = false
	notification.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(notificationTableName).
		SetMap(utils.StructToMap(notification)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert notification query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert notification for user %s: %w", notification.UserID, err)
	}

	return nil
}
