package models

import (
	"database/sql"
	"time"
)

// Notification is the DB shape of a delivered notification.
type Notification struct {
	NotificationID string         `db:"notification_id"`
	SenderID       sql.NullString `db:"sender_id"`
	ReceiverID     string         `db:"receiver_id"`
	Message        string         `db:"message"`
	Timestamp      time.Time      `db:"timestamp"`
	IsRead         bool           `db:"is_read"`
}

// ActivityLog is the DB shape of one administrative audit row.
type ActivityLog struct {
	ActivityID string    `db:"activity_id"`
	ProfileID  string    `db:"profile_id"`
	Action     string    `db:"action"`
	Timestamp  time.Time `db:"timestamp"`
}
