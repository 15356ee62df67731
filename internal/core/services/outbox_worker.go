package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/harborbank/corebank_backend/internal/core/domain"
	portsrepo "github.com/harborbank/corebank_backend/internal/core/ports/repositories"
	portssvc "github.com/harborbank/corebank_backend/internal/core/ports/services"
)

// EventPublisher pushes an event payload to the message broker. Nil-able:
// the worker runs without a broker and still delivers notifications.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body any) error
}

// OutboxWorkerConfig tunes the relay loop.
type OutboxWorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	ExchangeName string
	RoutingKey   string
}

// OutboxWorker polls the outbox and delivers committed events: in-app
// notifications to the transfer parties and staff, plus an optional broker
// publish. Delivery is at-least-once; an event is marked published only
// after every delivery step succeeded.
type OutboxWorker struct {
	outboxRepo  portsrepo.OutboxRepositoryFacade
	profileRepo portsrepo.ProfileReader
	dispatcher  portssvc.NotificationDispatcher
	publisher   EventPublisher
	cfg         OutboxWorkerConfig
	logger      *slog.Logger
}

func NewOutboxWorker(
	outboxRepo portsrepo.OutboxRepositoryFacade,
	profileRepo portsrepo.ProfileReader,
	dispatcher portssvc.NotificationDispatcher,
	publisher EventPublisher,
	cfg OutboxWorkerConfig,
	logger *slog.Logger,
) *OutboxWorker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OutboxWorker{
		outboxRepo:  outboxRepo,
		profileRepo: profileRepo,
		dispatcher:  dispatcher,
		publisher:   publisher,
		cfg:         cfg,
		logger:      logger,
	}
}

// Run polls until ctx is cancelled. Intended to be launched as a goroutine.
func (w *OutboxWorker) Run(ctx context.Context) {
	w.logger.Info("Outbox worker started", slog.Duration("poll_interval", w.cfg.PollInterval))
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Outbox worker stopping")
			return
		case <-ticker.C:
			if err := w.Poll(ctx); err != nil && ctx.Err() == nil {
				w.logger.Error("Outbox poll failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Poll processes one batch of pending events.
func (w *OutboxWorker) Poll(ctx context.Context) error {
	events, err := w.outboxRepo.ListPendingEvents(ctx, w.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list pending events: %w", err)
	}

	for _, event := range events {
		if err := w.process(ctx, event); err != nil {
			w.logger.Warn("Outbox event delivery failed",
				slog.String("event_id", event.EventID),
				slog.String("event_type", event.EventType),
				slog.Int("attempts", event.Attempts+1),
				slog.String("error", err.Error()))
			// A poison event is retired once it exhausts its attempts so it
			// stops blocking the head of every poll.
			if event.Attempts+1 >= w.cfg.MaxAttempts {
				w.logger.Error("Outbox event exhausted delivery attempts, discarding",
					slog.String("event_id", event.EventID),
					slog.String("event_type", event.EventType))
				if markErr := w.outboxRepo.DiscardEvent(ctx, event.EventID, err.Error()); markErr != nil {
					w.logger.Error("Failed to discard event", slog.String("event_id", event.EventID), slog.String("error", markErr.Error()))
				}
				continue
			}
			if markErr := w.outboxRepo.MarkEventFailed(ctx, event.EventID, err.Error()); markErr != nil {
				w.logger.Error("Failed to record event failure", slog.String("event_id", event.EventID), slog.String("error", markErr.Error()))
			}
			continue
		}
		if err := w.outboxRepo.MarkEventPublished(ctx, event.EventID, time.Now()); err != nil {
			// The event will be delivered again on the next poll.
			w.logger.Error("Failed to mark event published", slog.String("event_id", event.EventID), slog.String("error", err.Error()))
		}
	}
	return nil
}

func (w *OutboxWorker) process(ctx context.Context, event domain.OutboxEvent) error {
	switch event.EventType {
	case domain.EventTransferCompleted:
		return w.processTransferCompleted(ctx, event)
	default:
		// Unknown types are delivered to the broker only.
		return w.publish(ctx, event)
	}
}

func (w *OutboxWorker) processTransferCompleted(ctx context.Context, event domain.OutboxEvent) error {
	var payload domain.TransferCompletedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to decode transfer payload: %w", err)
	}

	amount := payload.Amount.StringFixed(2)
	if err := w.dispatcher.Notify(ctx, payload.SourceOwnerID, payload.SourceOwnerID,
		fmt.Sprintf("You sent %s from account %s to account %s.", amount, payload.SourceAccountID, payload.TargetAccountID)); err != nil {
		return fmt.Errorf("failed to notify source owner: %w", err)
	}
	if err := w.dispatcher.Notify(ctx, payload.SourceOwnerID, payload.TargetOwnerID,
		fmt.Sprintf("You received %s into account %s.", amount, payload.TargetAccountID)); err != nil {
		return fmt.Errorf("failed to notify target owner: %w", err)
	}

	staffIDs, err := w.profileRepo.FindStaffProfileIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to look up staff profiles: %w", err)
	}
	staffText := fmt.Sprintf("Transfer of %s completed from account %s to account %s.", amount, payload.SourceAccountID, payload.TargetAccountID)
	for _, staffID := range staffIDs {
		if err := w.dispatcher.Notify(ctx, payload.SourceOwnerID, staffID, staffText); err != nil {
			return fmt.Errorf("failed to notify staff %s: %w", staffID, err)
		}
	}

	return w.publish(ctx, event)
}

func (w *OutboxWorker) publish(ctx context.Context, event domain.OutboxEvent) error {
	if w.publisher == nil {
		return nil
	}
	if err := w.publisher.Publish(ctx, w.cfg.ExchangeName, w.cfg.RoutingKey, json.RawMessage(event.Payload)); err != nil {
		return fmt.Errorf("failed to publish event to broker: %w", err)
	}
	return nil
}
