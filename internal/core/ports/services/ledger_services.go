package services

import (
	"context"

	"github.com/harborbank/corebank_backend/internal/core/domain"
	"github.com/harborbank/corebank_backend/internal/dto"
)

// LedgerSvcFacade is the transaction engine: the only component that moves
// money. Every method executes as a single commit-or-nothing unit; business
// rule failures are the sentinel errors of the apperrors package.
type LedgerSvcFacade interface {
	// Deposit credits an approved account and appends one DEPOSIT row.
	Deposit(ctx context.Context, req dto.DepositRequest, actor domain.Actor) (*domain.Transaction, error)

	// Withdraw debits an approved account and appends one WITHDRAW row.
	// The funds check and the debit happen atomically under the row lock.
	Withdraw(ctx context.Context, req dto.WithdrawRequest, actor domain.Actor) (*domain.Transaction, error)

	// Transfer moves money between two approved accounts, appending the
	// TRANSFER_OUT/TRANSFER_IN pair and an outbox event in one commit.
	Transfer(ctx context.Context, req dto.TransferRequest, actor domain.Actor) (*domain.TransferResult, error)

	// ListAccountTransactions retrieves an account's committed ledger rows
	// in timestamp order, subject to the same ownership rule as reads.
	ListAccountTransactions(ctx context.Context, accountID string, actor domain.Actor) ([]domain.Transaction, error)
}
