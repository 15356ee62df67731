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

// maxCommitRetries bounds automatic retries after a serialization conflict.
const maxCommitRetries = 3

// LedgerService is the transaction engine. It validates a requested money
// movement, builds the commit unit and hands it to the ledger store, which
// applies it atomically or not at all. Funds checks happen in the store
// under the row lock; re-checking here would only race.
type LedgerService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountReader
	opTimeout   time.Duration
}

func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountReader, opTimeout time.Duration) *LedgerService {
	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}
	return &LedgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		opTimeout:   opTimeout,
	}
}

func (s *LedgerService) Deposit(ctx context.Context, req dto.DepositRequest, actor domain.Actor) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	account, err := s.authorizedAccount(ctx, req.AccountID, actor)
	if err != nil {
		return nil, err
	}
	if !account.CanTransact() {
		return nil, fmt.Errorf("account %s is %s: %w", account.AccountID, account.Status, apperrors.ErrAccountNotApproved)
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		TransactionType: domain.Deposit,
		AccountID:       account.AccountID,
		Amount:          req.Amount,
		Timestamp:       now,
		CreatedBy:       actor.ProfileID,
	}
	commit := portsrepo.LedgerCommit{
		BalanceChanges: map[string]decimal.Decimal{account.AccountID: req.Amount},
		Transactions:   []domain.Transaction{txn},
	}

	if err := s.commitWithRetry(ctx, commit); err != nil {
		return nil, err
	}

	logger.Info("Deposit committed", slog.String("transaction_id", txn.TransactionID), slog.String("account_id", account.AccountID), slog.String("amount", req.Amount.String()))
	return &txn, nil
}

func (s *LedgerService) Withdraw(ctx context.Context, req dto.WithdrawRequest, actor domain.Actor) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	account, err := s.authorizedAccount(ctx, req.AccountID, actor)
	if err != nil {
		return nil, err
	}
	if !account.CanTransact() {
		return nil, fmt.Errorf("account %s is %s: %w", account.AccountID, account.Status, apperrors.ErrAccountNotApproved)
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		TransactionType: domain.Withdraw,
		AccountID:       account.AccountID,
		Amount:          req.Amount,
		Timestamp:       now,
		CreatedBy:       actor.ProfileID,
	}
	commit := portsrepo.LedgerCommit{
		BalanceChanges: map[string]decimal.Decimal{account.AccountID: req.Amount.Neg()},
		Transactions:   []domain.Transaction{txn},
	}

	if err := s.commitWithRetry(ctx, commit); err != nil {
		return nil, err
	}

	logger.Info("Withdrawal committed", slog.String("transaction_id", txn.TransactionID), slog.String("account_id", account.AccountID), slog.String("amount", req.Amount.String()))
	return &txn, nil
}

func (s *LedgerService) Transfer(ctx context.Context, req dto.TransferRequest, actor domain.Actor) (*domain.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.SourceAccountID == req.TargetAccountID {
		return nil, fmt.Errorf("source and target are the same account: %w", apperrors.ErrSameAccountTransfer)
	}

	// The caller must control the source account. The target only needs to
	// exist and be approved; cross-owner transfers are how money moves
	// between customers.
	source, err := s.authorizedAccount(ctx, req.SourceAccountID, actor)
	if err != nil {
		return nil, err
	}
	target, err := s.accountRepo.FindAccountByID(ctx, req.TargetAccountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find transfer target", slog.String("error", err.Error()), slog.String("account_id", req.TargetAccountID))
		}
		return nil, err
	}
	if !source.CanTransact() {
		return nil, fmt.Errorf("source account %s is %s: %w", source.AccountID, source.Status, apperrors.ErrAccountNotApproved)
	}
	if !target.CanTransact() {
		return nil, fmt.Errorf("target account %s is %s: %w", target.AccountID, target.Status, apperrors.ErrAccountNotApproved)
	}

	now := time.Now()
	groupID := uuid.NewString()
	out := domain.Transaction{
		TransactionID:   uuid.NewString(),
		TransactionType: domain.TransferOut,
		AccountID:       source.AccountID,
		TargetAccountID: target.AccountID,
		TransferGroupID: groupID,
		Amount:          req.Amount,
		Timestamp:       now,
		CreatedBy:       actor.ProfileID,
	}
	in := domain.Transaction{
		TransactionID:   uuid.NewString(),
		TransactionType: domain.TransferIn,
		AccountID:       target.AccountID,
		TargetAccountID: source.AccountID,
		TransferGroupID: groupID,
		Amount:          req.Amount,
		Timestamp:       now,
		CreatedBy:       actor.ProfileID,
	}

	event, err := domain.NewTransferCompletedEvent(domain.TransferCompletedPayload{
		TransferGroupID: groupID,
		SourceAccountID: source.AccountID,
		TargetAccountID: target.AccountID,
		SourceOwnerID:   source.OwnerID,
		TargetOwnerID:   target.OwnerID,
		Amount:          req.Amount,
		CompletedAt:     now,
	}, now)
	if err != nil {
		return nil, fmt.Errorf("failed to build transfer event: %w", err)
	}

	commit := portsrepo.LedgerCommit{
		BalanceChanges: map[string]decimal.Decimal{
			source.AccountID: req.Amount.Neg(),
			target.AccountID: req.Amount,
		},
		Transactions: []domain.Transaction{out, in},
		OutboxEvents: []domain.OutboxEvent{event},
	}

	if err := s.commitWithRetry(ctx, commit); err != nil {
		return nil, err
	}

	logger.Info("Transfer committed",
		slog.String("transfer_group_id", groupID),
		slog.String("source_account_id", source.AccountID),
		slog.String("target_account_id", target.AccountID),
		slog.String("amount", req.Amount.String()))
	return &domain.TransferResult{Out: out, In: in}, nil
}

func (s *LedgerService) ListAccountTransactions(ctx context.Context, accountID string, actor domain.Actor) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.authorizedAccount(ctx, accountID, actor); err != nil {
		return nil, err
	}

	txns, err := s.ledgerRepo.FindTransactionsByAccount(ctx, accountID)
	if err != nil {
		logger.Error("Failed to list account transactions", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

// authorizedAccount fetches an account and enforces the ownership rule:
// customers act only on their own accounts, staff on any.
func (s *LedgerService) authorizedAccount(ctx context.Context, accountID string, actor domain.Actor) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	if !actor.IsStaff() && account.OwnerID != actor.ProfileID {
		return nil, fmt.Errorf("account %s does not belong to the caller: %w", accountID, apperrors.ErrForbidden)
	}
	return account, nil
}

// commitWithRetry runs the commit under the operation deadline, retrying a
// bounded number of times when the store reports a serialization conflict.
// Anything else, including ErrInsufficientFunds and ErrTimeout, propagates.
func (s *LedgerService) commitWithRetry(ctx context.Context, commit portsrepo.LedgerCommit) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	var err error
	for attempt := 1; attempt <= maxCommitRetries; attempt++ {
		opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
		err = s.ledgerRepo.Commit(opCtx, commit)
		cancel()
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		if attempt == maxCommitRetries {
			break
		}
		logger.Warn("Ledger commit conflicted, retrying", slog.Int("attempt", attempt), slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", apperrors.ErrTimeout, ctx.Err())
		case <-time.After(time.Duration(attempt) * 10 * time.Millisecond):
		}
	}
	return err
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be greater than zero, got %s: %w", amount.String(), apperrors.ErrInvalidAmount)
	}
	if amount.Exponent() < -2 {
		return fmt.Errorf("amount %s has more than two decimal places: %w", amount.String(), apperrors.ErrInvalidAmount)
	}
	return nil
}

var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)
