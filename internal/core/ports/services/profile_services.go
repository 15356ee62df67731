package services

import (
	"context"

	"github.com/harborbank/corebank_backend/internal/core/domain"
	"github.com/harborbank/corebank_backend/internal/dto"
)

// ProfileSvcFacade manages customer and staff profiles. All mutations are
// staff-only administrative actions and are audited post-commit.
type ProfileSvcFacade interface {
	// CreateProfile registers a new profile with a hashed password.
	CreateProfile(ctx context.Context, req dto.CreateProfileRequest, actor domain.Actor) (*domain.Profile, error)

	// Authenticate verifies a username/password pair. It is the only
	// unauthenticated operation; failures all collapse to ErrForbidden so
	// callers cannot probe which usernames exist.
	Authenticate(ctx context.Context, username, password string) (*domain.Profile, error)

	// GetProfileByID retrieves a profile. Customers may only read their own.
	GetProfileByID(ctx context.Context, profileID string, actor domain.Actor) (*domain.Profile, error)

	// ListCustomers retrieves customer profiles (staff only).
	ListCustomers(ctx context.Context, params dto.ListProfilesParams, actor domain.Actor) ([]domain.Profile, error)

	// UpdateProfile updates name/email of an existing profile.
	UpdateProfile(ctx context.Context, profileID string, req dto.UpdateProfileRequest, actor domain.Actor) (*domain.Profile, error)

	// DeleteProfile soft deletes a profile. Refused while the profile owns
	// any account with a non-zero balance; accounts are never cascaded away.
	DeleteProfile(ctx context.Context, profileID string, actor domain.Actor) error
}
