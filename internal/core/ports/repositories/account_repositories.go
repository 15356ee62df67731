package repositories

import (
	"context"
	"time"

	"github.com/harborbank/corebank_backend/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByOwner retrieves all accounts of one profile in creation order.
	FindAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error)

	// FindAccountsByStatus retrieves accounts in a given lifecycle state, oldest first.
	FindAccountsByStatus(ctx context.Context, status domain.AccountStatus, limit int, offset int) ([]domain.Account, error)

	// ListAccounts retrieves a paginated list of all accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountStatus applies a lifecycle transition that has already been
	// validated against the status state machine.
	UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
// Balance mutation is deliberately absent: balances change only inside the
// ledger repository's atomic commit.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
