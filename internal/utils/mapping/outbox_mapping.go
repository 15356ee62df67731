package mapping

import (
	"github.com/harborbank/corebank_backend/internal/core/domain"
	"github.com/harborbank/corebank_backend/internal/models"
)

// ToModelOutboxEvent converts a domain OutboxEvent to a model OutboxEvent
func ToModelOutboxEvent(d domain.OutboxEvent) models.OutboxEvent {
	return models.OutboxEvent{
		EventID:     d.EventID,
		EventType:   d.EventType,
		AggregateID: d.AggregateID,
		Payload:     d.Payload,
		Status:      string(d.Status),
		Attempts:    d.Attempts,
		LastError:   d.LastError,
		CreatedAt:   d.CreatedAt,
		PublishedAt: d.PublishedAt,
	}
}

// ToDomainOutboxEvent converts a model OutboxEvent to a domain OutboxEvent
func ToDomainOutboxEvent(m models.OutboxEvent) domain.OutboxEvent {
	return domain.OutboxEvent{
		EventID:     m.EventID,
		EventType:   m.EventType,
		AggregateID: m.AggregateID,
		Payload:     m.Payload,
		Status:      domain.OutboxStatus(m.Status),
		Attempts:    m.Attempts,
		LastError:   m.LastError,
		CreatedAt:   m.CreatedAt,
		PublishedAt: m.PublishedAt,
	}
}
