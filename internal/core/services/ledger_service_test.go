package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harborbank/corebank_backend/internal/apperrors"
	"github.com/harborbank/corebank_backend/internal/core/domain"
	portsrepo "github.com/harborbank/corebank_backend/internal/core/ports/repositories"
	"github.com/harborbank/corebank_backend/internal/core/services"
	"github.com/harborbank/corebank_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountReader ---
type MockAccountReader struct {
	mock.Mock
}

func (m *MockAccountReader) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReader) FindAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountReader) FindAccountsByStatus(ctx context.Context, status domain.AccountStatus, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountReader) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- In-memory ledger store ---
// fakeLedgerStore mimics the atomic commit semantics of the real store: a
// single lock serializes commits, deltas that would drive a balance negative
// fail with ErrInsufficientFunds, and nothing is partially applied.
type fakeLedgerStore struct {
	mu           sync.Mutex
	balances     map[string]decimal.Decimal
	transactions []domain.Transaction
	outbox       []domain.OutboxEvent

	// conflictsLeft makes the next N commits fail with ErrConflict.
	conflictsLeft int
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{balances: make(map[string]decimal.Decimal)}
}

func (f *fakeLedgerStore) setBalance(accountID string, balance decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[accountID] = balance
}

func (f *fakeLedgerStore) balance(accountID string) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[accountID]
}

func (f *fakeLedgerStore) Commit(ctx context.Context, commit portsrepo.LedgerCommit) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return fmt.Errorf("serialization failure: %w", apperrors.ErrConflict)
	}

	next := make(map[string]decimal.Decimal, len(commit.BalanceChanges))
	for accountID, delta := range commit.BalanceChanges {
		balance, ok := f.balances[accountID]
		if !ok {
			return apperrors.ErrNotFound
		}
		updated := balance.Add(delta)
		if updated.IsNegative() {
			return fmt.Errorf("account %s balance would become %s: %w", accountID, updated.String(), apperrors.ErrInsufficientFunds)
		}
		next[accountID] = updated
	}
	for accountID, updated := range next {
		f.balances[accountID] = updated
	}
	f.transactions = append(f.transactions, commit.Transactions...)
	f.outbox = append(f.outbox, commit.OutboxEvents...)
	return nil
}

func (f *fakeLedgerStore) AppendTransactions(ctx context.Context, transactions []domain.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactions = append(f.transactions, transactions...)
	return nil
}

func (f *fakeLedgerStore) UpdateAccountBalances(ctx context.Context, updates map[string]decimal.Decimal, userID string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := make(map[string]decimal.Decimal, len(updates))
	for accountID, delta := range updates {
		balance, ok := f.balances[accountID]
		if !ok {
			return apperrors.ErrNotFound
		}
		updated := balance.Add(delta)
		if updated.IsNegative() {
			return fmt.Errorf("account %s balance would become %s: %w", accountID, updated.String(), apperrors.ErrInsufficientFunds)
		}
		next[accountID] = updated
	}
	for accountID, updated := range next {
		f.balances[accountID] = updated
	}
	return nil
}

func (f *fakeLedgerStore) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.transactions {
		if f.transactions[i].TransactionID == transactionID {
			txn := f.transactions[i]
			return &txn, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeLedgerStore) FindTransactionsByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Transaction
	for _, txn := range f.transactions {
		if txn.AccountID == accountID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) ListRecentTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.transactions) {
		limit = len(f.transactions)
	}
	return append([]domain.Transaction(nil), f.transactions[len(f.transactions)-limit:]...), nil
}

// --- Test Suite ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockAccounts *MockAccountReader
	store        *fakeLedgerStore
	service      *services.LedgerService

	ownerID  string
	staff    domain.Actor
	customer domain.Actor
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockAccounts = new(MockAccountReader)
	suite.store = newFakeLedgerStore()
	suite.service = services.NewLedgerService(suite.store, suite.mockAccounts, 2*time.Second)

	suite.ownerID = uuid.NewString()
	suite.staff = domain.Actor{ProfileID: uuid.NewString(), Role: domain.RoleStaff}
	suite.customer = domain.Actor{ProfileID: suite.ownerID, Role: domain.RoleCustomer}
}

func (suite *LedgerServiceTestSuite) approvedAccount(balance string) *domain.Account {
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		OwnerID:     suite.ownerID,
		AccountType: domain.Checking,
		Balance:     decimal.RequireFromString(balance),
		Status:      domain.StatusApproved,
	}
	suite.store.setBalance(account.AccountID, account.Balance)
	return account
}

func (suite *LedgerServiceTestSuite) TestDeposit_Success() {
	ctx := context.Background()
	account := suite.approvedAccount("10.00")
	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	txn, err := suite.service.Deposit(ctx, dto.DepositRequest{
		AccountID: account.AccountID,
		Amount:    decimal.RequireFromString("25.50"),
	}, suite.customer)

	suite.Require().NoError(err)
	suite.Equal(domain.Deposit, txn.TransactionType)
	suite.Equal(account.AccountID, txn.AccountID)
	suite.True(suite.store.balance(account.AccountID).Equal(decimal.RequireFromString("35.50")))
	suite.mockAccounts.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeposit_RejectsNonPositiveAmount() {
	ctx := context.Background()

	for _, amount := range []string{"0", "-5.00"} {
		_, err := suite.service.Deposit(ctx, dto.DepositRequest{
			AccountID: uuid.NewString(),
			Amount:    decimal.RequireFromString(amount),
		}, suite.customer)
		suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	}
	// No account lookup should ever happen for an invalid amount.
	suite.mockAccounts.AssertNotCalled(suite.T(), "FindAccountByID")
}

func (suite *LedgerServiceTestSuite) TestDeposit_RejectsSubCentPrecision() {
	_, err := suite.service.Deposit(context.Background(), dto.DepositRequest{
		AccountID: uuid.NewString(),
		Amount:    decimal.RequireFromString("1.001"),
	}, suite.customer)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (suite *LedgerServiceTestSuite) TestDeposit_PendingAccountFails() {
	ctx := context.Background()
	account := suite.approvedAccount("0.00")
	account.Status = domain.StatusPending
	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.Deposit(ctx, dto.DepositRequest{
		AccountID: account.AccountID,
		Amount:    decimal.RequireFromString("5.00"),
	}, suite.customer)
	suite.ErrorIs(err, apperrors.ErrAccountNotApproved)
	suite.Empty(suite.store.transactions)
}

func (suite *LedgerServiceTestSuite) TestWithdraw_InsufficientFundsLeavesNoTrace() {
	ctx := context.Background()
	account := suite.approvedAccount("10.00")
	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.Withdraw(ctx, dto.WithdrawRequest{
		AccountID: account.AccountID,
		Amount:    decimal.RequireFromString("10.01"),
	}, suite.customer)

	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.True(suite.store.balance(account.AccountID).Equal(decimal.RequireFromString("10.00")))
	suite.Empty(suite.store.transactions)
}

func (suite *LedgerServiceTestSuite) TestWithdraw_OtherCustomersAccountForbidden() {
	ctx := context.Background()
	account := suite.approvedAccount("10.00")
	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	stranger := domain.Actor{ProfileID: uuid.NewString(), Role: domain.RoleCustomer}
	_, err := suite.service.Withdraw(ctx, dto.WithdrawRequest{
		AccountID: account.AccountID,
		Amount:    decimal.RequireFromString("1.00"),
	}, stranger)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *LedgerServiceTestSuite) TestWithdraw_ConcurrentDrainStopsAtZero() {
	ctx := context.Background()
	account := suite.approvedAccount("50.00")
	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil)

	const workers = 100
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.service.Withdraw(ctx, dto.WithdrawRequest{
				AccountID: account.AccountID,
				Amount:    decimal.RequireFromString("1.00"),
			}, suite.customer)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, insufficient int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
			insufficient++
		}
	}

	suite.Equal(50, succeeded)
	suite.Equal(50, insufficient)
	suite.True(suite.store.balance(account.AccountID).IsZero())
	suite.Len(suite.store.transactions, 50)
}

func (suite *LedgerServiceTestSuite) TestTransfer_Success() {
	ctx := context.Background()
	source := suite.approvedAccount("100.00")
	target := suite.approvedAccount("5.00")
	target.OwnerID = uuid.NewString()
	suite.mockAccounts.On("FindAccountByID", ctx, source.AccountID).Return(source, nil).Once()
	suite.mockAccounts.On("FindAccountByID", ctx, target.AccountID).Return(target, nil).Once()

	result, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SourceAccountID: source.AccountID,
		TargetAccountID: target.AccountID,
		Amount:          decimal.RequireFromString("40.00"),
	}, suite.customer)

	suite.Require().NoError(err)
	suite.Equal(domain.TransferOut, result.Out.TransactionType)
	suite.Equal(domain.TransferIn, result.In.TransactionType)
	suite.Equal(result.Out.TransferGroupID, result.In.TransferGroupID)
	suite.NotEmpty(result.Out.TransferGroupID)
	suite.True(result.Out.Amount.Equal(result.In.Amount))

	suite.True(suite.store.balance(source.AccountID).Equal(decimal.RequireFromString("60.00")))
	suite.True(suite.store.balance(target.AccountID).Equal(decimal.RequireFromString("45.00")))

	// Both legs and the outbox event ride in one commit.
	suite.Len(suite.store.transactions, 2)
	suite.Require().Len(suite.store.outbox, 1)
	suite.Equal(domain.EventTransferCompleted, suite.store.outbox[0].EventType)
}

func (suite *LedgerServiceTestSuite) TestTransfer_SameAccountFails() {
	accountID := uuid.NewString()
	_, err := suite.service.Transfer(context.Background(), dto.TransferRequest{
		SourceAccountID: accountID,
		TargetAccountID: accountID,
		Amount:          decimal.RequireFromString("1.00"),
	}, suite.customer)
	suite.ErrorIs(err, apperrors.ErrSameAccountTransfer)
}

func (suite *LedgerServiceTestSuite) TestTransfer_RejectedTargetFails() {
	ctx := context.Background()
	source := suite.approvedAccount("100.00")
	target := suite.approvedAccount("0.00")
	target.Status = domain.StatusRejected
	suite.mockAccounts.On("FindAccountByID", ctx, source.AccountID).Return(source, nil).Once()
	suite.mockAccounts.On("FindAccountByID", ctx, target.AccountID).Return(target, nil).Once()

	_, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SourceAccountID: source.AccountID,
		TargetAccountID: target.AccountID,
		Amount:          decimal.RequireFromString("1.00"),
	}, suite.customer)

	suite.ErrorIs(err, apperrors.ErrAccountNotApproved)
	suite.True(suite.store.balance(source.AccountID).Equal(decimal.RequireFromString("100.00")))
	suite.Empty(suite.store.outbox)
}

func (suite *LedgerServiceTestSuite) TestTransfer_ConcurrentTransfersConserveTotal() {
	ctx := context.Background()
	a := suite.approvedAccount("500.00")
	b := suite.approvedAccount("500.00")
	b.OwnerID = uuid.NewString()
	suite.mockAccounts.On("FindAccountByID", ctx, a.AccountID).Return(a, nil)
	suite.mockAccounts.On("FindAccountByID", ctx, b.AccountID).Return(b, nil)

	const rounds = 40
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(1)
		src, dst := a.AccountID, b.AccountID
		if i%2 == 1 {
			src, dst = dst, src
		}
		go func(src, dst string) {
			defer wg.Done()
			_, _ = suite.service.Transfer(ctx, dto.TransferRequest{
				SourceAccountID: src,
				TargetAccountID: dst,
				Amount:          decimal.RequireFromString("7.00"),
			}, suite.staff)
		}(src, dst)
	}
	wg.Wait()

	total := suite.store.balance(a.AccountID).Add(suite.store.balance(b.AccountID))
	suite.True(total.Equal(decimal.RequireFromString("1000.00")), "total moved from 1000.00 to %s", total)
}

func (suite *LedgerServiceTestSuite) TestCommit_RetriesOnConflict() {
	ctx := context.Background()
	account := suite.approvedAccount("10.00")
	suite.store.conflictsLeft = 2
	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	txn, err := suite.service.Deposit(ctx, dto.DepositRequest{
		AccountID: account.AccountID,
		Amount:    decimal.RequireFromString("1.00"),
	}, suite.customer)

	suite.Require().NoError(err)
	suite.NotNil(txn)
	suite.True(suite.store.balance(account.AccountID).Equal(decimal.RequireFromString("11.00")))
}

func (suite *LedgerServiceTestSuite) TestCommit_GivesUpAfterRepeatedConflicts() {
	ctx := context.Background()
	account := suite.approvedAccount("10.00")
	suite.store.conflictsLeft = 10
	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.Deposit(ctx, dto.DepositRequest{
		AccountID: account.AccountID,
		Amount:    decimal.RequireFromString("1.00"),
	}, suite.customer)

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.True(suite.store.balance(account.AccountID).Equal(decimal.RequireFromString("10.00")))
}

func (suite *LedgerServiceTestSuite) TestUpdateAccountBalances_AllOrNothing() {
	ctx := context.Background()
	a := suite.approvedAccount("10.00")
	b := suite.approvedAccount("5.00")

	err := suite.store.UpdateAccountBalances(ctx, map[string]decimal.Decimal{
		a.AccountID: decimal.RequireFromString("1.00"),
		b.AccountID: decimal.RequireFromString("-9.00"),
	}, suite.staff.ProfileID, time.Now())

	// One delta would drive b negative; neither account may change.
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.True(suite.store.balance(a.AccountID).Equal(decimal.RequireFromString("10.00")))
	suite.True(suite.store.balance(b.AccountID).Equal(decimal.RequireFromString("5.00")))

	err = suite.store.UpdateAccountBalances(ctx, map[string]decimal.Decimal{
		a.AccountID: decimal.RequireFromString("-3.00"),
		b.AccountID: decimal.RequireFromString("3.00"),
	}, suite.staff.ProfileID, time.Now())

	suite.Require().NoError(err)
	suite.True(suite.store.balance(a.AccountID).Equal(decimal.RequireFromString("7.00")))
	suite.True(suite.store.balance(b.AccountID).Equal(decimal.RequireFromString("8.00")))
	suite.Empty(suite.store.transactions)
}

func (suite *LedgerServiceTestSuite) TestListAccountTransactions_ReadsAreIdempotent() {
	ctx := context.Background()
	account := suite.approvedAccount("100.00")
	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil)

	_, err := suite.service.Deposit(ctx, dto.DepositRequest{
		AccountID: account.AccountID,
		Amount:    decimal.RequireFromString("25.00"),
	}, suite.customer)
	suite.Require().NoError(err)

	first, err := suite.service.ListAccountTransactions(ctx, account.AccountID, suite.customer)
	suite.Require().NoError(err)
	second, err := suite.service.ListAccountTransactions(ctx, account.AccountID, suite.customer)
	suite.Require().NoError(err)

	suite.Equal(first, second)
	suite.True(suite.store.balance(account.AccountID).Equal(decimal.RequireFromString("125.00")))
	suite.Len(suite.store.transactions, 1)
}

func (suite *LedgerServiceTestSuite) TestListAccountTransactions_OwnershipEnforced() {
	ctx := context.Background()
	account := suite.approvedAccount("10.00")
	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil)

	stranger := domain.Actor{ProfileID: uuid.NewString(), Role: domain.RoleCustomer}
	_, err := suite.service.ListAccountTransactions(ctx, account.AccountID, stranger)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	txns, err := suite.service.ListAccountTransactions(ctx, account.AccountID, suite.staff)
	suite.Require().NoError(err)
	suite.Empty(txns)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
