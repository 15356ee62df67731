package services

import (
	"context"

	"github.com/harborbank/corebank_backend/internal/core/domain"
	"github.com/harborbank/corebank_backend/internal/dto"
)

// AccountReaderSvc defines read operations of the account registry.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account. Customers may only read
	// their own accounts; staff may read any.
	GetAccountByID(ctx context.Context, accountID string, actor domain.Actor) (*domain.Account, error)

	// ListAccountsByOwner retrieves a profile's accounts in creation order.
	ListAccountsByOwner(ctx context.Context, ownerID string, actor domain.Actor) ([]domain.Account, error)

	// ListAccounts retrieves a paginated list of all accounts (staff only).
	ListAccounts(ctx context.Context, params dto.ListAccountsParams, actor domain.Actor) ([]domain.Account, error)

	// ListPendingAccounts retrieves accounts awaiting review (staff only).
	ListPendingAccounts(ctx context.Context, params dto.ListAccountsParams, actor domain.Actor) ([]domain.Account, error)
}

// AccountWriterSvc defines lifecycle operations of the account registry.
type AccountWriterSvc interface {
	// CreateAccount opens a new account in PENDING with balance 0.00 (staff only).
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor domain.Actor) (*domain.Account, error)

	// SetAccountStatus applies a staff approve/reject decision to a pending
	// account. Any other transition fails with ErrInvalidTransition.
	SetAccountStatus(ctx context.Context, accountID string, decision domain.StatusDecision, actor domain.Actor) (*domain.Account, error)
}

// AccountSvcFacade combines the account registry's operations.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
