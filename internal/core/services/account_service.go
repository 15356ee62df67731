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
	"github.com/shopspring/decimal"
)

// AccountService is the account registry: lifecycle only, never balances.
type AccountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	profileRepo portsrepo.ProfileReader
	audit       portssvc.AuditRecorder
}

func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, profileRepo portsrepo.ProfileReader, audit portssvc.AuditRecorder) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		audit:       audit,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor domain.Actor) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() {
		return nil, fmt.Errorf("only staff may open accounts: %w", apperrors.ErrForbidden)
	}
	if !domain.ValidAccountType(req.AccountType) {
		return nil, fmt.Errorf("unknown account type %q: %w", req.AccountType, apperrors.ErrValidation)
	}

	owner, err := s.profileRepo.FindProfileByID(ctx, req.OwnerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("owner %s: %w", req.OwnerID, apperrors.ErrNotFound)
		}
		logger.Error("Failed to look up account owner", slog.String("error", err.Error()), slog.String("owner_id", req.OwnerID))
		return nil, err
	}
	if owner.IsDeleted() {
		return nil, fmt.Errorf("owner %s is deleted: %w", req.OwnerID, apperrors.ErrValidation)
	}

	now := time.Now()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		OwnerID:     owner.ProfileID,
		AccountType: req.AccountType,
		Balance:     decimal.Zero,
		Status:      domain.StatusPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.ProfileID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.ProfileID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account in repository", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.recordAudit(ctx, actor, fmt.Sprintf("opened %s account %s for %s", account.AccountType, account.AccountID, account.OwnerID), now)

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("owner_id", account.OwnerID))
	return &account, nil
}

func (s *AccountService) GetAccountByID(ctx context.Context, accountID string, actor domain.Actor) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by ID", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}

	if !actor.IsStaff() && account.OwnerID != actor.ProfileID {
		return nil, fmt.Errorf("account %s does not belong to the caller: %w", accountID, apperrors.ErrForbidden)
	}

	return account, nil
}

func (s *AccountService) ListAccountsByOwner(ctx context.Context, ownerID string, actor domain.Actor) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() && ownerID != actor.ProfileID {
		return nil, fmt.Errorf("cannot list another profile's accounts: %w", apperrors.ErrForbidden)
	}

	accounts, err := s.accountRepo.FindAccountsByOwner(ctx, ownerID)
	if err != nil {
		logger.Error("Failed to list accounts by owner", slog.String("error", err.Error()), slog.String("owner_id", ownerID))
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *AccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams, actor domain.Actor) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() {
		return nil, fmt.Errorf("listing all accounts is a staff operation: %w", apperrors.ErrForbidden)
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()), slog.Int("limit", params.Limit), slog.Int("offset", params.Offset))
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *AccountService) ListPendingAccounts(ctx context.Context, params dto.ListAccountsParams, actor domain.Actor) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() {
		return nil, fmt.Errorf("reviewing pending accounts is a staff operation: %w", apperrors.ErrForbidden)
	}

	accounts, err := s.accountRepo.FindAccountsByStatus(ctx, domain.StatusPending, params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list pending accounts", slog.String("error", err.Error()))
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *AccountService) SetAccountStatus(ctx context.Context, accountID string, decision domain.StatusDecision, actor domain.Actor) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() {
		return nil, fmt.Errorf("account review is a staff operation: %w", apperrors.ErrForbidden)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account for review", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}

	next, ok := domain.NextStatus(account.Status, decision)
	if !ok {
		return nil, fmt.Errorf("cannot apply %s to %s account %s: %w", decision, account.Status, accountID, apperrors.ErrInvalidTransition)
	}

	now := time.Now()
	if err := s.accountRepo.UpdateAccountStatus(ctx, accountID, next, actor.ProfileID, now); err != nil {
		// A concurrent reviewer may have settled the account between the
		// read and the guarded update; surface that as an invalid move too.
		if !errors.Is(err, apperrors.ErrInvalidTransition) && !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to update account status", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}

	account.Status = next
	account.LastUpdatedAt = now
	account.LastUpdatedBy = actor.ProfileID

	s.recordAudit(ctx, actor, fmt.Sprintf("account %s moved to %s", accountID, next), now)

	logger.Info("Account status updated", slog.String("account_id", accountID), slog.String("status", string(next)))
	return account, nil
}

// recordAudit records a staff action after the state change has committed.
// Audit failures never fail the operation.
func (s *AccountService) recordAudit(ctx context.Context, actor domain.Actor, action string, at time.Time) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, actor.ProfileID, action, at); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to record audit entry", slog.String("error", err.Error()), slog.String("action", action))
	}
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)
