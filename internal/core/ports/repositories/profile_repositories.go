package repositories

import (
	"context"
	"time"

	"github.com/harborbank/corebank_backend/internal/core/domain"
)

// ProfileReader defines read operations for profile data
type ProfileReader interface {
	// FindProfileByID retrieves a profile by its unique identifier.
	FindProfileByID(ctx context.Context, profileID string) (*domain.Profile, error)

	// FindProfileByUsername retrieves a profile by username.
	FindProfileByUsername(ctx context.Context, username string) (*domain.Profile, error)

	// FindCredentialsByUsername retrieves an active profile together with its
	// stored password hash. Used only by authentication; the hash never
	// travels further than the credential check.
	FindCredentialsByUsername(ctx context.Context, username string) (*domain.Profile, string, error)

	// ListProfiles retrieves a paginated list of profiles with a given role.
	ListProfiles(ctx context.Context, role domain.Role, limit int, offset int) ([]domain.Profile, error)

	// FindStaffProfileIDs retrieves the IDs of all active staff profiles.
	FindStaffProfileIDs(ctx context.Context) ([]string, error)
}

// ProfileWriter defines write operations for profile data
type ProfileWriter interface {
	// SaveProfile persists a new profile with its password hash.
	SaveProfile(ctx context.Context, profile domain.Profile, passwordHash string) error

	// UpdateProfile updates mutable profile details (name, email).
	UpdateProfile(ctx context.Context, profile domain.Profile) error

	// SoftDeleteProfile marks a profile deleted without removing the row,
	// preserving ledger ownership linkage.
	SoftDeleteProfile(ctx context.Context, profileID string, userID string, now time.Time) error
}

// ProfileRepositoryFacade combines all profile-related repository interfaces
type ProfileRepositoryFacade interface {
	ProfileReader
	ProfileWriter
}
