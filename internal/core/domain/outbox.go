package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OutboxStatus is the delivery state of an outbox event.
type OutboxStatus string

const (
	OutboxPending   OutboxStatus = "PENDING"
	OutboxPublished OutboxStatus = "PUBLISHED"
	OutboxFailed    OutboxStatus = "FAILED"
)

// Outbox event types.
const (
	EventTransferCompleted = "transfer.completed"
)

// OutboxEvent is written in the same atomic commit as the business rows it
// describes and delivered asynchronously by the outbox worker, giving
// at-least-once notification delivery without coupling it to the transfer.
type OutboxEvent struct {
	EventID     string       `json:"eventID"` // Primary Key (UUID)
	EventType   string       `json:"eventType"`
	AggregateID string       `json:"aggregateID"` // Source account of the transfer
	Payload     []byte       `json:"payload"`
	Status      OutboxStatus `json:"status"`
	Attempts    int          `json:"attempts"`
	LastError   string       `json:"lastError,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	PublishedAt *time.Time   `json:"publishedAt,omitempty"`
}

// TransferCompletedPayload is the payload of an EventTransferCompleted event.
type TransferCompletedPayload struct {
	TransferGroupID string          `json:"transferGroupID"`
	SourceAccountID string          `json:"sourceAccountID"`
	TargetAccountID string          `json:"targetAccountID"`
	SourceOwnerID   string          `json:"sourceOwnerID"`
	TargetOwnerID   string          `json:"targetOwnerID"`
	Amount          decimal.Decimal `json:"amount"`
	CompletedAt     time.Time       `json:"completedAt"`
}

// NewTransferCompletedEvent builds a pending outbox event for a committed transfer.
func NewTransferCompletedEvent(p TransferCompletedPayload, now time.Time) (OutboxEvent, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return OutboxEvent{}, err
	}
	return OutboxEvent{
		EventID:     uuid.NewString(),
		EventType:   EventTransferCompleted,
		AggregateID: p.SourceAccountID,
		Payload:     body,
		Status:      OutboxPending,
		CreatedAt:   now,
	}, nil
}
