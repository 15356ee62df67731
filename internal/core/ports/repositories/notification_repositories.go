package repositories

import (
	"context"
	"time"

	"github.com/harborbank/corebank_backend/internal/core/domain"
)

// NotificationRepositoryFacade persists delivered notifications.
type NotificationRepositoryFacade interface {
	// SaveNotifications inserts a batch of notifications.
	SaveNotifications(ctx context.Context, notifications []domain.Notification) error

	// ListNotificationsByReceiver retrieves a receiver's notifications, newest first.
	ListNotificationsByReceiver(ctx context.Context, receiverID string, limit int) ([]domain.Notification, error)

	// MarkNotificationRead flags a notification as read.
	MarkNotificationRead(ctx context.Context, notificationID string, receiverID string) error
}

// ActivityRepositoryFacade persists administrative audit records.
type ActivityRepositoryFacade interface {
	// SaveActivity inserts one audit row.
	SaveActivity(ctx context.Context, activity domain.ActivityLog) error

	// ListActivities retrieves recent audit rows, newest first.
	ListActivities(ctx context.Context, limit int) ([]domain.ActivityLog, error)
}

// OutboxRepositoryFacade reads and settles outbox events. Insertion happens
// only through the ledger commit.
type OutboxRepositoryFacade interface {
	// ListPendingEvents retrieves undelivered events, oldest first.
	ListPendingEvents(ctx context.Context, limit int) ([]domain.OutboxEvent, error)

	// MarkEventPublished records successful delivery.
	MarkEventPublished(ctx context.Context, eventID string, now time.Time) error

	// MarkEventFailed records a delivery failure; the event stays eligible
	// for a later poll (at-least-once).
	MarkEventFailed(ctx context.Context, eventID string, lastError string) error

	// DiscardEvent moves an event to the terminal FAILED state once its
	// delivery attempts are exhausted; it is never polled again.
	DiscardEvent(ctx context.Context, eventID string, lastError string) error
}
