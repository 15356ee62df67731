package services

import (
	"context"
	"time"
)

// NotificationDispatcher is the external collaborator that delivers
// notifications produced by the outbox worker. Implementations must tolerate
// redelivery: the outbox guarantees at-least-once, not exactly-once.
type NotificationDispatcher interface {
	Notify(ctx context.Context, senderID, receiverID, text string) error
}

// AuditRecorder is the external collaborator that records administrative
// actions. It is invoked after commit and is never part of the atomic unit;
// a recording failure is logged, not propagated.
type AuditRecorder interface {
	Record(ctx context.Context, profileID, action string, at time.Time) error
}
