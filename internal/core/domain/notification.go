package domain

import "time"

// Notification is a message delivered to a profile as a side effect of a
// committed transfer or an administrative action. Delivery is at-least-once
// and never part of the transactional unit that produced it.
type Notification struct {
	NotificationID string    `json:"notificationID"` // Primary Key (UUID)
	SenderID       string    `json:"senderID"`       // ProfileID, may be empty for system messages
	ReceiverID     string    `json:"receiverID"`     // ProfileID
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
	IsRead         bool      `json:"isRead"`
}

// ActivityLog records an administrative action for audit purposes. It is not
// required for transaction atomicity.
type ActivityLog struct {
	ActivityID string    `json:"activityID"` // Primary Key (UUID)
	ProfileID  string    `json:"profileID"`  // Acting staff member
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}
