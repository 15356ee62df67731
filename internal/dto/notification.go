package dto

import (
	"time"

	"github.com/harborbank/corebank_backend/internal/core/domain"
)

// NotificationResponse defines the data returned for a notification.
type NotificationResponse struct {
	NotificationID string    `json:"notificationID"`
	SenderID       string    `json:"senderID,omitempty"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
	IsRead         bool      `json:"isRead"`
}

// ToNotificationResponse converts a domain.Notification to its DTO
func ToNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		NotificationID: n.NotificationID,
		SenderID:       n.SenderID,
		Message:        n.Message,
		Timestamp:      n.Timestamp,
		IsRead:         n.IsRead,
	}
}

// ToListNotificationResponse converts a slice of domain.Notification to DTOs
func ToListNotificationResponse(ns []domain.Notification) []NotificationResponse {
	res := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		res[i] = ToNotificationResponse(&n)
	}
	return res
}
