package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/harborbank/corebank_backend/internal/apperrors"
	"github.com/harborbank/corebank_backend/internal/core/domain"
	portsrepo "github.com/harborbank/corebank_backend/internal/core/ports/repositories"
	portssvc "github.com/harborbank/corebank_backend/internal/core/ports/services"
	"github.com/harborbank/corebank_backend/internal/dto"
	"github.com/harborbank/corebank_backend/internal/middleware"
	"github.com/harborbank/corebank_backend/internal/utils"
)

// ProfileService manages customer and staff profiles.
type ProfileService struct {
	profileRepo portsrepo.ProfileRepositoryFacade
	accountRepo portsrepo.AccountReader
	audit       portssvc.AuditRecorder
}

func NewProfileService(profileRepo portsrepo.ProfileRepositoryFacade, accountRepo portsrepo.AccountReader, audit portssvc.AuditRecorder) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		accountRepo: accountRepo,
		audit:       audit,
	}
}

func (s *ProfileService) CreateProfile(ctx context.Context, req dto.CreateProfileRequest, actor domain.Actor) (*domain.Profile, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() {
		return nil, fmt.Errorf("profile registration is a staff operation: %w", apperrors.ErrForbidden)
	}
	if !domain.ValidRole(req.Role) {
		return nil, fmt.Errorf("unknown role %q: %w", req.Role, apperrors.ErrValidation)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	profile := domain.Profile{
		ProfileID: uuid.NewString(),
		Username:  req.Username,
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.ProfileID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.ProfileID,
		},
	}

	if err := s.profileRepo.SaveProfile(ctx, profile, hash); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save profile", slog.String("error", err.Error()), slog.String("username", req.Username))
		}
		return nil, err
	}

	s.recordAudit(ctx, actor, fmt.Sprintf("registered %s profile %s", profile.Role, profile.ProfileID), now)

	logger.Info("Profile created", slog.String("profile_id", profile.ProfileID), slog.String("role", string(profile.Role)))
	return &profile, nil
}

func (s *ProfileService) Authenticate(ctx context.Context, username, password string) (*domain.Profile, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	profile, hash, err := s.profileRepo.FindCredentialsByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrForbidden)
		}
		logger.Error("Failed to look up credentials", slog.String("error", err.Error()))
		return nil, err
	}
	if !utils.CheckPasswordHash(password, hash) {
		return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrForbidden)
	}
	return profile, nil
}

func (s *ProfileService) GetProfileByID(ctx context.Context, profileID string, actor domain.Actor) (*domain.Profile, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() && profileID != actor.ProfileID {
		return nil, fmt.Errorf("cannot read another profile: %w", apperrors.ErrForbidden)
	}

	profile, err := s.profileRepo.FindProfileByID(ctx, profileID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find profile", slog.String("error", err.Error()), slog.String("profile_id", profileID))
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) ListCustomers(ctx context.Context, params dto.ListProfilesParams, actor domain.Actor) ([]domain.Profile, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() {
		return nil, fmt.Errorf("listing customers is a staff operation: %w", apperrors.ErrForbidden)
	}

	profiles, err := s.profileRepo.ListProfiles(ctx, domain.RoleCustomer, params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list customer profiles", slog.String("error", err.Error()))
		return nil, err
	}
	if profiles == nil {
		return []domain.Profile{}, nil
	}
	return profiles, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, profileID string, req dto.UpdateProfileRequest, actor domain.Actor) (*domain.Profile, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() && profileID != actor.ProfileID {
		return nil, fmt.Errorf("cannot update another profile: %w", apperrors.ErrForbidden)
	}

	profile, err := s.profileRepo.FindProfileByID(ctx, profileID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find profile for update", slog.String("error", err.Error()), slog.String("profile_id", profileID))
		}
		return nil, err
	}
	if profile.IsDeleted() {
		return nil, fmt.Errorf("profile %s is deleted: %w", profileID, apperrors.ErrNotFound)
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Email != nil {
		profile.Email = *req.Email
	}
	profile.LastUpdatedAt = time.Now()
	profile.LastUpdatedBy = actor.ProfileID

	if err := s.profileRepo.UpdateProfile(ctx, *profile); err != nil {
		logger.Error("Failed to update profile", slog.String("error", err.Error()), slog.String("profile_id", profileID))
		return nil, err
	}

	logger.Info("Profile updated", slog.String("profile_id", profileID))
	return profile, nil
}

func (s *ProfileService) DeleteProfile(ctx context.Context, profileID string, actor domain.Actor) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() {
		return fmt.Errorf("profile deletion is a staff operation: %w", apperrors.ErrForbidden)
	}

	profile, err := s.profileRepo.FindProfileByID(ctx, profileID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find profile for deletion", slog.String("error", err.Error()), slog.String("profile_id", profileID))
		}
		return err
	}
	if profile.IsDeleted() {
		return fmt.Errorf("profile %s is already deleted: %w", profileID, apperrors.ErrNotFound)
	}

	accounts, err := s.accountRepo.FindAccountsByOwner(ctx, profileID)
	if err != nil {
		logger.Error("Failed to check accounts before profile deletion", slog.String("error", err.Error()), slog.String("profile_id", profileID))
		return err
	}
	for _, acc := range accounts {
		if !acc.Balance.IsZero() {
			return fmt.Errorf("profile %s owns account %s with balance %s: %w",
				profileID, acc.AccountID, acc.Balance.String(), apperrors.ErrValidation)
		}
	}

	now := time.Now()
	if err := s.profileRepo.SoftDeleteProfile(ctx, profileID, actor.ProfileID, now); err != nil {
		logger.Error("Failed to soft delete profile", slog.String("error", err.Error()), slog.String("profile_id", profileID))
		return err
	}

	s.recordAudit(ctx, actor, fmt.Sprintf("deleted profile %s", profileID), now)

	logger.Info("Profile soft deleted", slog.String("profile_id", profileID))
	return nil
}

func (s *ProfileService) recordAudit(ctx context.Context, actor domain.Actor, action string, at time.Time) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, actor.ProfileID, action, at); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to record audit entry", slog.String("error", err.Error()), slog.String("action", action))
	}
}

var _ portssvc.ProfileSvcFacade = (*ProfileService)(nil)
