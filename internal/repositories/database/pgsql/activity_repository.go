package pgsql

import (
	"context"

	"github.com/harborbank/corebank_backend/internal/apperrors"
	"github.com/harborbank/corebank_backend/internal/core/domain"
	portsrepo "github.com/harborbank/corebank_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxActivityRepository struct {
	pool *pgxpool.Pool
}

// newPgxActivityRepository creates a new repository for audit records.
func newPgxActivityRepository(pool *pgxpool.Pool) portsrepo.ActivityRepositoryFacade {
	return &PgxActivityRepository{pool: pool}
}

// Ensure PgxActivityRepository implements the facade
var _ portsrepo.ActivityRepositoryFacade = (*PgxActivityRepository)(nil)

// SaveActivity inserts one audit row.
func (r *PgxActivityRepository) SaveActivity(ctx context.Context, activity domain.ActivityLog) error {
	query := `
		INSERT INTO activity_log (activity_id, profile_id, action, timestamp)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.pool.Exec(ctx, query, activity.ActivityID, activity.ProfileID, activity.Action, activity.Timestamp)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save activity record", err)
	}
	return nil
}

// ListActivities retrieves recent audit rows, newest first.
func (r *PgxActivityRepository) ListActivities(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT activity_id, profile_id, action, timestamp
		FROM activity_log
		ORDER BY timestamp DESC, activity_id DESC
		LIMIT $1;
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query activity log", err)
	}
	defer rows.Close()

	var result []domain.ActivityLog
	for rows.Next() {
		var a domain.ActivityLog
		if err := rows.Scan(&a.ActivityID, &a.ProfileID, &a.Action, &a.Timestamp); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan activity row", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating activity rows", err)
	}
	return result, nil
}
