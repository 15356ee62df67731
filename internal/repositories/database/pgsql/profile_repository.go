package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harborbank/corebank_backend/internal/apperrors"
	"github.com/harborbank/corebank_backend/internal/core/domain"
	portsrepo "github.com/harborbank/corebank_backend/internal/core/ports/repositories"
	"github.com/harborbank/corebank_backend/internal/models"
	"github.com/harborbank/corebank_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileColumns = `profile_id, username, name, email, role, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

type PgxProfileRepository struct {
	pool *pgxpool.Pool
}

// newPgxProfileRepository creates a new repository for profile data.
func newPgxProfileRepository(pool *pgxpool.Pool) portsrepo.ProfileRepositoryFacade {
	return &PgxProfileRepository{pool: pool}
}

// Ensure PgxProfileRepository implements portsrepo.ProfileRepositoryFacade
var _ portsrepo.ProfileRepositoryFacade = (*PgxProfileRepository)(nil)

// SaveProfile persists a new profile with its password hash.
func (r *PgxProfileRepository) SaveProfile(ctx context.Context, profile domain.Profile, passwordHash string) error {
	query := `
		INSERT INTO profiles (profile_id, username, password_hash, name, email, role, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		profile.ProfileID,
		profile.Username,
		passwordHash,
		profile.Name,
		profile.Email,
		string(profile.Role),
		profile.CreatedAt,
		profile.CreatedBy,
		profile.LastUpdatedAt,
		profile.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: username %s is taken", apperrors.ErrDuplicate, profile.Username)
		}
		return apperrors.NewAppError(500, "failed to save profile "+profile.ProfileID, err)
	}
	return nil
}

func scanProfileRow(row pgx.Row) (*models.Profile, error) {
	var m models.Profile
	err := row.Scan(
		&m.ProfileID,
		&m.Username,
		&m.Name,
		&m.Email,
		&m.Role,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindProfileByID retrieves a profile by its ID, including soft-deleted ones
// so historical ledger rows keep resolving to an owner.
func (r *PgxProfileRepository) FindProfileByID(ctx context.Context, profileID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE profile_id = $1;`

	m, err := scanProfileRow(r.pool.QueryRow(ctx, query, profileID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find profile by ID "+profileID, err)
	}

	d := mapping.ToDomainProfile(*m)
	return &d, nil
}

// FindProfileByUsername retrieves an active profile by username.
func (r *PgxProfileRepository) FindProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE username = $1 AND deleted_at IS NULL;`

	m, err := scanProfileRow(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find profile by username", err)
	}

	d := mapping.ToDomainProfile(*m)
	return &d, nil
}

// FindCredentialsByUsername retrieves an active profile with its password hash.
func (r *PgxProfileRepository) FindCredentialsByUsername(ctx context.Context, username string) (*domain.Profile, string, error) {
	query := `SELECT ` + profileColumns + `, password_hash FROM profiles WHERE username = $1 AND deleted_at IS NULL;`

	var m models.Profile
	var hash string
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&m.ProfileID,
		&m.Username,
		&m.Name,
		&m.Email,
		&m.Role,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
		&hash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.ErrNotFound
		}
		return nil, "", apperrors.NewAppError(500, "failed to find credentials by username", err)
	}

	d := mapping.ToDomainProfile(m)
	return &d, hash, nil
}

// ListProfiles retrieves a paginated list of active profiles with a role.
func (r *PgxProfileRepository) ListProfiles(ctx context.Context, role domain.Role, limit int, offset int) ([]domain.Profile, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE role = $1 AND deleted_at IS NULL
		ORDER BY created_at, profile_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.pool.Query(ctx, query, string(role), limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list profiles", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var m models.Profile
		if err := rows.Scan(
			&m.ProfileID,
			&m.Username,
			&m.Name,
			&m.Email,
			&m.Role,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&m.DeletedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan profile row", err)
		}
		profiles = append(profiles, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating profile rows", err)
	}

	return mapping.ToDomainProfileSlice(profiles), nil
}

// FindStaffProfileIDs retrieves the IDs of all active staff profiles.
func (r *PgxProfileRepository) FindStaffProfileIDs(ctx context.Context) ([]string, error) {
	query := `SELECT profile_id FROM profiles WHERE role = $1 AND deleted_at IS NULL;`
	rows, err := r.pool.Query(ctx, query, string(domain.RoleStaff))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query staff profiles", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan staff profile ID", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating staff profile rows", err)
	}
	return ids, nil
}

// UpdateProfile updates mutable profile details (name, email).
func (r *PgxProfileRepository) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	query := `
		UPDATE profiles
		SET name = $1, email = $2, last_updated_at = $3, last_updated_by = $4
		WHERE profile_id = $5 AND deleted_at IS NULL;
	`
	tag, err := r.pool.Exec(ctx, query,
		profile.Name,
		profile.Email,
		profile.LastUpdatedAt,
		profile.LastUpdatedBy,
		profile.ProfileID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update profile "+profile.ProfileID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDeleteProfile marks a profile deleted without removing the row.
func (r *PgxProfileRepository) SoftDeleteProfile(ctx context.Context, profileID string, userID string, now time.Time) error {
	query := `
		UPDATE profiles
		SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2
		WHERE profile_id = $3 AND deleted_at IS NULL;
	`
	tag, err := r.pool.Exec(ctx, query, now, userID, profileID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to soft delete profile "+profileID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
