package pgsql

import (
	"context"
	"database/sql"

	"github.com/harborbank/corebank_backend/internal/apperrors"
	"github.com/harborbank/corebank_backend/internal/core/domain"
	portsrepo "github.com/harborbank/corebank_backend/internal/core/ports/repositories"
	"github.com/harborbank/corebank_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxNotificationRepository struct {
	pool *pgxpool.Pool
}

// newPgxNotificationRepository creates a new repository for notifications.
func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepositoryFacade {
	return &PgxNotificationRepository{pool: pool}
}

// Ensure PgxNotificationRepository implements the facade
var _ portsrepo.NotificationRepositoryFacade = (*PgxNotificationRepository)(nil)

// SaveNotifications inserts a batch of notifications.
func (r *PgxNotificationRepository) SaveNotifications(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO notifications (notification_id, sender_id, receiver_id, message, timestamp, is_read)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (notification_id) DO NOTHING;
	`
	for _, n := range notifications {
		var sender sql.NullString
		if n.SenderID != "" {
			sender = sql.NullString{String: n.SenderID, Valid: true}
		}
		batch.Queue(query, n.NotificationID, sender, n.ReceiverID, n.Message, n.Timestamp, n.IsRead)
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to save notifications", err)
	}
	return nil
}

// ListNotificationsByReceiver retrieves a receiver's notifications, newest first.
func (r *PgxNotificationRepository) ListNotificationsByReceiver(ctx context.Context, receiverID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT notification_id, sender_id, receiver_id, message, timestamp, is_read
		FROM notifications
		WHERE receiver_id = $1
		ORDER BY timestamp DESC, notification_id DESC
		LIMIT $2;
	`
	rows, err := r.pool.Query(ctx, query, receiverID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query notifications for "+receiverID, err)
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var m models.Notification
		if err := rows.Scan(&m.NotificationID, &m.SenderID, &m.ReceiverID, &m.Message, &m.Timestamp, &m.IsRead); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan notification row", err)
		}
		result = append(result, domain.Notification{
			NotificationID: m.NotificationID,
			SenderID:       m.SenderID.String,
			ReceiverID:     m.ReceiverID,
			Message:        m.Message,
			Timestamp:      m.Timestamp,
			IsRead:         m.IsRead,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating notification rows", err)
	}
	return result, nil
}

// MarkNotificationRead flags a notification as read. The receiver filter
// keeps one profile from settling another's notifications.
func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, notificationID string, receiverID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE notification_id = $1 AND receiver_id = $2;`
	tag, err := r.pool.Exec(ctx, query, notificationID, receiverID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark notification read", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
