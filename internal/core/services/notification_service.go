package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/harborbank/corebank_backend/internal/apperrors"
	"github.com/harborbank/corebank_backend/internal/core/domain"
	portsrepo "github.com/harborbank/corebank_backend/internal/core/ports/repositories"
	portssvc "github.com/harborbank/corebank_backend/internal/core/ports/services"
	"github.com/harborbank/corebank_backend/internal/middleware"
)

// NotificationService reads and settles a profile's notifications.
type NotificationService struct {
	notificationRepo portsrepo.NotificationRepositoryFacade
}

func NewNotificationService(notificationRepo portsrepo.NotificationRepositoryFacade) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) ListNotifications(ctx context.Context, limit int, actor domain.Actor) ([]domain.Notification, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if limit <= 0 {
		limit = 50
	}

	notifications, err := s.notificationRepo.ListNotificationsByReceiver(ctx, actor.ProfileID, limit)
	if err != nil {
		logger.Error("Failed to list notifications", slog.String("error", err.Error()), slog.String("receiver_id", actor.ProfileID))
		return nil, err
	}
	if notifications == nil {
		return []domain.Notification{}, nil
	}
	return notifications, nil
}

func (s *NotificationService) MarkNotificationRead(ctx context.Context, notificationID string, actor domain.Actor) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	err := s.notificationRepo.MarkNotificationRead(ctx, notificationID, actor.ProfileID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to mark notification read", slog.String("error", err.Error()), slog.String("notification_id", notificationID))
		}
		return err
	}
	return nil
}

var _ portssvc.NotificationSvcFacade = (*NotificationService)(nil)

// StoreNotificationDispatcher delivers notifications by writing rows to the
// notification store. A redelivered event may produce a duplicate notice,
// which is acceptable for informational messages.
type StoreNotificationDispatcher struct {
	notificationRepo portsrepo.NotificationRepositoryFacade
}

func NewStoreNotificationDispatcher(notificationRepo portsrepo.NotificationRepositoryFacade) *StoreNotificationDispatcher {
	return &StoreNotificationDispatcher{notificationRepo: notificationRepo}
}

func (d *StoreNotificationDispatcher) Notify(ctx context.Context, senderID, receiverID, text string) error {
	return d.notificationRepo.SaveNotifications(ctx, []domain.Notification{{
		NotificationID: uuid.NewString(),
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Message:        text,
		Timestamp:      time.Now(),
	}})
}

var _ portssvc.NotificationDispatcher = (*StoreNotificationDispatcher)(nil)

// ActivityAuditRecorder records administrative actions in the activity log.
type ActivityAuditRecorder struct {
	activityRepo portsrepo.ActivityRepositoryFacade
}

func NewActivityAuditRecorder(activityRepo portsrepo.ActivityRepositoryFacade) *ActivityAuditRecorder {
	return &ActivityAuditRecorder{activityRepo: activityRepo}
}

func (r *ActivityAuditRecorder) Record(ctx context.Context, profileID, action string, at time.Time) error {
	return r.activityRepo.SaveActivity(ctx, domain.ActivityLog{
		ActivityID: uuid.NewString(),
		ProfileID:  profileID,
		Action:     action,
		Timestamp:  at,
	})
}

var _ portssvc.AuditRecorder = (*ActivityAuditRecorder)(nil)
