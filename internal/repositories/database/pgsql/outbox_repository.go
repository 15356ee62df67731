package pgsql

import (
	"context"
	"time"

	"github.com/harborbank/corebank_backend/internal/apperrors"
	"github.com/harborbank/corebank_backend/internal/core/domain"
	portsrepo "github.com/harborbank/corebank_backend/internal/core/ports/repositories"
	"github.com/harborbank/corebank_backend/internal/models"
	"github.com/harborbank/corebank_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOutboxRepository struct {
	pool *pgxpool.Pool
}

// newPgxOutboxRepository creates a repository for reading and settling
// outbox events. Insertion happens only through the ledger Commit.
func newPgxOutboxRepository(pool *pgxpool.Pool) portsrepo.OutboxRepositoryFacade {
	return &PgxOutboxRepository{pool: pool}
}

// Ensure PgxOutboxRepository implements the facade
var _ portsrepo.OutboxRepositoryFacade = (*PgxOutboxRepository)(nil)

// ListPendingEvents retrieves undelivered events, oldest first. There is one
// relay worker per process; concurrent pollers would double-deliver, which
// the at-least-once contract tolerates.
func (r *PgxOutboxRepository) ListPendingEvents(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT event_id, event_type, aggregate_id, payload, status, attempts, last_error, created_at, published_at
		FROM outbox_events
		WHERE status = $1
		ORDER BY created_at, event_id
		LIMIT $2;
	`
	rows, err := r.pool.Query(ctx, query, string(domain.OutboxPending), limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query pending outbox events", err)
	}
	defer rows.Close()

	var result []domain.OutboxEvent
	for rows.Next() {
		var m models.OutboxEvent
		if err := rows.Scan(
			&m.EventID,
			&m.EventType,
			&m.AggregateID,
			&m.Payload,
			&m.Status,
			&m.Attempts,
			&m.LastError,
			&m.CreatedAt,
			&m.PublishedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan outbox row", err)
		}
		result = append(result, mapping.ToDomainOutboxEvent(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating outbox rows", err)
	}
	return result, nil
}

// MarkEventPublished records successful delivery.
func (r *PgxOutboxRepository) MarkEventPublished(ctx context.Context, eventID string, now time.Time) error {
	query := `
		UPDATE outbox_events
		SET status = $1, published_at = $2, attempts = attempts + 1, last_error = ''
		WHERE event_id = $3;
	`
	tag, err := r.pool.Exec(ctx, query, string(domain.OutboxPublished), now, eventID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark outbox event published", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkEventFailed records a delivery failure; the row stays PENDING so a
// later poll retries it (at-least-once).
func (r *PgxOutboxRepository) MarkEventFailed(ctx context.Context, eventID string, lastError string) error {
	query := `
		UPDATE outbox_events
		SET attempts = attempts + 1, last_error = $1
		WHERE event_id = $2;
	`
	tag, err := r.pool.Exec(ctx, query, lastError, eventID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark outbox event failed", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DiscardEvent retires an event that exhausted its delivery attempts. The
// terminal FAILED status removes it from the pending query for good.
func (r *PgxOutboxRepository) DiscardEvent(ctx context.Context, eventID string, lastError string) error {
	query := `
		UPDATE outbox_events
		SET status = $1, attempts = attempts + 1, last_error = $2
		WHERE event_id = $3;
	`
	tag, err := r.pool.Exec(ctx, query, string(domain.OutboxFailed), lastError, eventID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to discard outbox event", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
