package repositories

import (
	"context"
	"time"

	"github.com/harborbank/corebank_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerCommit is the unit of work the transaction engine hands to the
// ledger store: balance deltas, the ledger rows to append, and any outbox
// events, committed together or not at all.
type LedgerCommit struct {
	// BalanceChanges maps account ID to the signed delta to apply.
	BalanceChanges map[string]decimal.Decimal
	// Transactions are appended to the ledger; never updated afterwards.
	Transactions []domain.Transaction
	// OutboxEvents ride in the same commit for at-least-once delivery.
	OutboxEvents []domain.OutboxEvent
}

// LedgerWriter defines the write side of the ledger store.
type LedgerWriter interface {
	// Commit atomically applies balance deltas, appends ledger rows and
	// inserts outbox events. Accounts are locked in ascending ID order;
	// status and resulting-balance rules are re-checked under the lock, so
	// concurrent operations against the same account serialize and a delta
	// that would drive a balance negative fails with ErrInsufficientFunds
	// leaving no partial write.
	Commit(ctx context.Context, commit LedgerCommit) error

	// AppendTransactions appends ledger rows without touching balances,
	// all-or-nothing. Exposed for replays/backfills; the engine uses Commit.
	AppendTransactions(ctx context.Context, transactions []domain.Transaction) error

	// UpdateAccountBalances applies signed balance deltas without appending
	// ledger rows, all-or-nothing under the same lock order and funds rules
	// as Commit. Exposed for replays/backfills; the engine uses Commit.
	UpdateAccountBalances(ctx context.Context, updates map[string]decimal.Decimal, userID string, now time.Time) error
}

// LedgerReader defines read operations over committed ledger rows.
type LedgerReader interface {
	// FindTransactionByID retrieves a single ledger row.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionsByAccount retrieves an account's rows in timestamp order.
	FindTransactionsByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)

	// ListRecentTransactions retrieves the newest rows across all accounts.
	ListRecentTransactions(ctx context.Context, limit int) ([]domain.Transaction, error)
}

// LedgerRepositoryFacade combines the ledger store's read and write sides.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
