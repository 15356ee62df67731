package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/harborbank/corebank_backend/internal/apperrors"
	"github.com/harborbank/corebank_backend/internal/core/domain"
	portsrepo "github.com/harborbank/corebank_backend/internal/core/ports/repositories"
	"github.com/harborbank/corebank_backend/internal/models"
	"github.com/harborbank/corebank_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, transaction_type, account_id, target_account_id, transfer_group_id, amount, timestamp, created_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for the append-only ledger.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// mapCommitError translates driver-level failures into the apperrors
// taxonomy: serialization/deadlock to ErrConflict (retryable by the engine),
// deadline expiry to ErrTimeout, anything else to a fatal AppError.
func mapCommitError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %s", apperrors.ErrConflict, msg)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", apperrors.ErrTimeout, msg)
	}
	return apperrors.NewAppError(500, msg, err)
}

// Commit atomically applies balance deltas, appends ledger rows and inserts
// outbox events. See the port documentation for the locking contract.
func (r *PgxLedgerRepository) Commit(ctx context.Context, commit portsrepo.LedgerCommit) error {
	if len(commit.BalanceChanges) == 0 || len(commit.Transactions) == 0 {
		return fmt.Errorf("%w: ledger commit requires balance changes and transactions", apperrors.ErrValidation)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	// 1. Lock the touched accounts in ascending ID order. The fixed global
	// order prevents deadlock between two transfers moving money in opposite
	// directions between the same pair of accounts.
	accountIDs := make([]string, 0, len(commit.BalanceChanges))
	for accID := range commit.BalanceChanges {
		accountIDs = append(accountIDs, accID)
	}
	sort.Strings(accountIDs)

	locked, err := lockAccountsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	// 2. Re-validate status and resulting balances under the lock. This is
	// what closes the read-then-write race window across concurrent
	// withdrawals: the check and the update happen on the same locked row.
	newBalances := make(map[string]decimal.Decimal, len(accountIDs))
	for _, accID := range accountIDs {
		acc, found := locked[accID]
		if !found {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accID)
		}
		if acc.Status != string(domain.StatusApproved) {
			return fmt.Errorf("%w: account %s", apperrors.ErrAccountNotApproved, accID)
		}
		next := acc.Balance.Add(commit.BalanceChanges[accID])
		if next.IsNegative() {
			return fmt.Errorf("%w: account %s balance %s cannot cover %s",
				apperrors.ErrInsufficientFunds, accID, acc.Balance.String(), commit.BalanceChanges[accID].Abs().String())
		}
		newBalances[accID] = next
	}

	// 3. Apply the new balances. Timestamp and actor come from the commit's
	// ledger rows so the account row and its rows agree.
	now := commit.Transactions[0].Timestamp
	actor := commit.Transactions[0].CreatedBy
	batch := &pgx.Batch{}
	updateQuery := `UPDATE accounts SET balance = $1, last_updated_at = $2, last_updated_by = $3 WHERE account_id = $4;`
	for _, accID := range accountIDs {
		batch.Queue(updateQuery, newBalances[accID], now, actor, accID)
	}

	// 4. Append the ledger rows.
	insertTxnQuery := `INSERT INTO transactions (` + transactionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	for _, txn := range commit.Transactions {
		m := mapping.ToModelTransaction(txn)
		batch.Queue(insertTxnQuery,
			m.TransactionID,
			m.TransactionType,
			m.AccountID,
			m.TargetAccountID,
			m.TransferGroupID,
			m.Amount,
			m.Timestamp,
			m.CreatedBy,
		)
	}

	// 5. Insert outbox events in the same unit.
	insertOutboxQuery := `
		INSERT INTO outbox_events (event_id, event_type, aggregate_id, payload, status, attempts, last_error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, evt := range commit.OutboxEvents {
		m := mapping.ToModelOutboxEvent(evt)
		batch.Queue(insertOutboxQuery,
			m.EventID,
			m.EventType,
			m.AggregateID,
			m.Payload,
			m.Status,
			m.Attempts,
			m.LastError,
			m.CreatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return mapCommitError("failed to execute ledger commit batch", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapCommitError("failed to commit ledger unit", err)
	}
	return nil
}

// lockAccountsForUpdate selects and row-locks accounts inside tx. The ORDER
// BY matches the sorted input so lock acquisition follows the canonical order.
func lockAccountsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, mapCommitError("failed to lock accounts for update", err)
	}
	defer rows.Close()

	locked := make(map[string]models.Account, len(accountIDs))
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(
			&m.AccountID,
			&m.OwnerID,
			&m.AccountType,
			&m.Balance,
			&m.Status,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan locked account row", err)
		}
		locked[m.AccountID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, mapCommitError("error iterating locked account rows", err)
	}
	return locked, nil
}

// AppendTransactions appends ledger rows without touching balances.
func (r *PgxLedgerRepository) AppendTransactions(ctx context.Context, transactions []domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	query := `INSERT INTO transactions (` + transactionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	for _, txn := range transactions {
		m := mapping.ToModelTransaction(txn)
		batch.Queue(query, m.TransactionID, m.TransactionType, m.AccountID, m.TargetAccountID, m.TransferGroupID, m.Amount, m.Timestamp, m.CreatedBy)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapCommitError("failed to append transactions", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapCommitError("failed to commit transaction append", err)
	}
	return nil
}

// UpdateAccountBalances applies signed balance deltas without appending
// ledger rows. Locking and validation match Commit: all touched accounts are
// locked in ascending ID order and a delta that would drive a balance
// negative aborts the whole unit.
func (r *PgxLedgerRepository) UpdateAccountBalances(ctx context.Context, updates map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	accountIDs := make([]string, 0, len(updates))
	for accID := range updates {
		accountIDs = append(accountIDs, accID)
	}
	sort.Strings(accountIDs)

	locked, err := lockAccountsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	updateQuery := `UPDATE accounts SET balance = $1, last_updated_at = $2, last_updated_by = $3 WHERE account_id = $4;`
	for _, accID := range accountIDs {
		acc, found := locked[accID]
		if !found {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accID)
		}
		next := acc.Balance.Add(updates[accID])
		if next.IsNegative() {
			return fmt.Errorf("%w: account %s balance %s cannot cover %s",
				apperrors.ErrInsufficientFunds, accID, acc.Balance.String(), updates[accID].Abs().String())
		}
		batch.Queue(updateQuery, next, now, userID, accID)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapCommitError("failed to update account balances", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapCommitError("failed to commit balance update", err)
	}
	return nil
}

func scanTransactionRows(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var m models.Transaction
		if err := rows.Scan(
			&m.TransactionID,
			&m.TransactionType,
			&m.AccountID,
			&m.TargetAccountID,
			&m.TransferGroupID,
			&m.Amount,
			&m.Timestamp,
			&m.CreatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		txns = append(txns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}
	return mapping.ToDomainTransactionSlice(txns), nil
}

// FindTransactionByID retrieves a single ledger row.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	var m models.Transaction
	err := r.Pool.QueryRow(ctx, query, transactionID).Scan(
		&m.TransactionID,
		&m.TransactionType,
		&m.AccountID,
		&m.TargetAccountID,
		&m.TransferGroupID,
		&m.Amount,
		&m.Timestamp,
		&m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}

	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// FindTransactionsByAccount retrieves an account's rows in timestamp order.
func (r *PgxLedgerRepository) FindTransactionsByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY timestamp, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for account "+accountID, err)
	}
	return scanTransactionRows(rows)
}

// ListRecentTransactions retrieves the newest rows across all accounts.
func (r *PgxLedgerRepository) ListRecentTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY timestamp DESC, transaction_id DESC LIMIT $1;`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query recent transactions", err)
	}
	return scanTransactionRows(rows)
}
