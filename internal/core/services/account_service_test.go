package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harborbank/corebank_backend/internal/apperrors"
	"github.com/harborbank/corebank_backend/internal/core/domain"
	"github.com/harborbank/corebank_backend/internal/core/services"
	"github.com/harborbank/corebank_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	MockAccountReader
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, status, userID, now)
	return args.Error(0)
}

// --- Mock ProfileReader ---
type MockProfileReader struct {
	mock.Mock
}

func (m *MockProfileReader) FindProfileByID(ctx context.Context, profileID string) (*domain.Profile, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileReader) FindProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileReader) FindCredentialsByUsername(ctx context.Context, username string) (*domain.Profile, string, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.Profile), args.String(1), args.Error(2)
}

func (m *MockProfileReader) ListProfiles(ctx context.Context, role domain.Role, limit int, offset int) ([]domain.Profile, error) {
	args := m.Called(ctx, role, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *MockProfileReader) FindStaffProfileIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock AuditRecorder ---
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, profileID, action string, at time.Time) error {
	args := m.Called(ctx, profileID, action, at)
	return args.Error(0)
}

// --- Test Suite ---
type AccountServiceTestSuite struct {
	suite.Suite
	mockAccounts *MockAccountRepository
	mockProfiles *MockProfileReader
	mockAudit    *MockAuditRecorder
	service      *services.AccountService

	staff    domain.Actor
	customer domain.Actor
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccounts = new(MockAccountRepository)
	suite.mockProfiles = new(MockProfileReader)
	suite.mockAudit = new(MockAuditRecorder)
	suite.service = services.NewAccountService(suite.mockAccounts, suite.mockProfiles, suite.mockAudit)

	suite.staff = domain.Actor{ProfileID: uuid.NewString(), Role: domain.RoleStaff}
	suite.customer = domain.Actor{ProfileID: uuid.NewString(), Role: domain.RoleCustomer}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_StartsPendingWithZeroBalance() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	owner := &domain.Profile{ProfileID: ownerID, Role: domain.RoleCustomer}

	suite.mockProfiles.On("FindProfileByID", ctx, ownerID).Return(owner, nil).Once()
	suite.mockAccounts.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.OwnerID == ownerID &&
			a.Status == domain.StatusPending &&
			a.Balance.IsZero() &&
			a.CreatedBy == suite.staff.ProfileID
	})).Return(nil).Once()
	suite.mockAudit.On("Record", ctx, suite.staff.ProfileID, mock.Anything, mock.Anything).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		OwnerID:     ownerID,
		AccountType: domain.Savings,
	}, suite.staff)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, account.Status)
	suite.True(account.Balance.IsZero())
	suite.mockAccounts.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_CustomerForbidden() {
	_, err := suite.service.CreateAccount(context.Background(), dto.CreateAccountRequest{
		OwnerID:     uuid.NewString(),
		AccountType: domain.Checking,
	}, suite.customer)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockAccounts.AssertNotCalled(suite.T(), "SaveAccount")
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownOwner() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	suite.mockProfiles.On("FindProfileByID", ctx, ownerID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		OwnerID:     ownerID,
		AccountType: domain.Checking,
	}, suite.staff)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_CustomerReadsOwnOnly() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID: uuid.NewString(),
		OwnerID:   suite.customer.ProfileID,
		Status:    domain.StatusApproved,
	}
	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil)

	got, err := suite.service.GetAccountByID(ctx, account.AccountID, suite.customer)
	suite.Require().NoError(err)
	suite.Equal(account.AccountID, got.AccountID)

	stranger := domain.Actor{ProfileID: uuid.NewString(), Role: domain.RoleCustomer}
	_, err = suite.service.GetAccountByID(ctx, account.AccountID, stranger)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AccountServiceTestSuite) TestSetAccountStatus_ApprovePending() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID: uuid.NewString(),
		OwnerID:   uuid.NewString(),
		Status:    domain.StatusPending,
	}
	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockAccounts.On("UpdateAccountStatus", ctx, account.AccountID, domain.StatusApproved, suite.staff.ProfileID, mock.Anything).Return(nil).Once()
	suite.mockAudit.On("Record", ctx, suite.staff.ProfileID, mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := suite.service.SetAccountStatus(ctx, account.AccountID, domain.DecisionApprove, suite.staff)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, updated.Status)
	suite.mockAccounts.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestSetAccountStatus_ApprovedIsTerminal() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID: uuid.NewString(),
		Status:    domain.StatusApproved,
	}
	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.SetAccountStatus(ctx, account.AccountID, domain.DecisionReject, suite.staff)

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockAccounts.AssertNotCalled(suite.T(), "UpdateAccountStatus")
}

func (suite *AccountServiceTestSuite) TestSetAccountStatus_CustomerForbidden() {
	_, err := suite.service.SetAccountStatus(context.Background(), uuid.NewString(), domain.DecisionApprove, suite.customer)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AccountServiceTestSuite) TestListPendingAccounts_StaffOnly() {
	ctx := context.Background()
	_, err := suite.service.ListPendingAccounts(ctx, dto.ListAccountsParams{Limit: 20}, suite.customer)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	pending := []domain.Account{{AccountID: uuid.NewString(), Status: domain.StatusPending}}
	suite.mockAccounts.On("FindAccountsByStatus", ctx, domain.StatusPending, 20, 0).Return(pending, nil).Once()

	got, err := suite.service.ListPendingAccounts(ctx, dto.ListAccountsParams{Limit: 20}, suite.staff)
	suite.Require().NoError(err)
	suite.Len(got, 1)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
