package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/harborbank/corebank_backend/internal/apperrors"
	"github.com/harborbank/corebank_backend/internal/core/domain"
	portssvc "github.com/harborbank/corebank_backend/internal/core/ports/services"
	"github.com/harborbank/corebank_backend/internal/dto"
	"github.com/harborbank/corebank_backend/internal/handlers"
	"github.com/harborbank/corebank_backend/internal/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Deposit(ctx context.Context, req dto.DepositRequest, actor domain.Actor) (*domain.Transaction, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, req dto.WithdrawRequest, actor domain.Actor) (*domain.Transaction, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) Transfer(ctx context.Context, req dto.TransferRequest, actor domain.Actor) (*domain.TransferResult, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferResult), args.Error(1)
}

func (m *MockLedgerService) ListAccountTransactions(ctx context.Context, accountID string, actor domain.Actor) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	mockLedger *MockLedgerService
	jwtSecret  string
}

func (suite *TransactionHandlerTestSuite) generateTestToken(profileID string, role domain.Role) string {
	claims := middleware.ActorClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "corebank-test",
			Subject:   profileID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handlers.RegisterCustomValidators()
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockLedger = new(MockLedgerService)
	v1 := suite.router.Group("/api/v1")
	handlers.RegisterTransactionRoutes(v1, suite.mockLedger)
}

func (suite *TransactionHandlerTestSuite) postJSON(path, token string, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TransactionHandlerTestSuite) TestDeposit_Success() {
	profileID := uuid.NewString()
	token := suite.generateTestToken(profileID, domain.RoleCustomer)
	accountID := uuid.NewString()
	amount := decimal.RequireFromString("25.00")

	txn := &domain.Transaction{
		TransactionID:   uuid.NewString(),
		TransactionType: domain.Deposit,
		AccountID:       accountID,
		Amount:          amount,
		Timestamp:       time.Now(),
		CreatedBy:       profileID,
	}
	suite.mockLedger.On("Deposit", mock.Anything, mock.MatchedBy(func(req dto.DepositRequest) bool {
		return req.AccountID == accountID && req.Amount.Equal(amount)
	}), domain.Actor{ProfileID: profileID, Role: domain.RoleCustomer}).Return(txn, nil).Once()

	w := suite.postJSON("/api/v1/transactions/deposit", token, gin.H{
		"accountID": accountID,
		"amount":    "25.00",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(txn.TransactionID, resp.TransactionID)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestDeposit_ZeroAmountRejectedAtBinding() {
	token := suite.generateTestToken(uuid.NewString(), domain.RoleCustomer)

	w := suite.postJSON("/api/v1/transactions/deposit", token, gin.H{
		"accountID": uuid.NewString(),
		"amount":    "0",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "Deposit")
}

func (suite *TransactionHandlerTestSuite) TestDeposit_MissingTokenUnauthorized() {
	payload, _ := json.Marshal(gin.H{"accountID": uuid.NewString(), "amount": "10.00"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/deposit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestWithdraw_InsufficientFundsMapsTo422() {
	profileID := uuid.NewString()
	token := suite.generateTestToken(profileID, domain.RoleCustomer)

	suite.mockLedger.On("Withdraw", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("balance too low: %w", apperrors.ErrInsufficientFunds)).Once()

	w := suite.postJSON("/api/v1/transactions/withdraw", token, gin.H{
		"accountID": uuid.NewString(),
		"amount":    "100.00",
	})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestTransfer_SameAccountMapsTo400() {
	profileID := uuid.NewString()
	token := suite.generateTestToken(profileID, domain.RoleCustomer)
	accountID := uuid.NewString()

	suite.mockLedger.On("Transfer", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("source equals target: %w", apperrors.ErrSameAccountTransfer)).Once()

	w := suite.postJSON("/api/v1/transactions/transfer", token, gin.H{
		"sourceAccountID": accountID,
		"targetAccountID": accountID,
		"amount":          "10.00",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestTransfer_Success() {
	profileID := uuid.NewString()
	token := suite.generateTestToken(profileID, domain.RoleCustomer)
	sourceID := uuid.NewString()
	targetID := uuid.NewString()
	groupID := uuid.NewString()
	amount := decimal.RequireFromString("40.00")

	result := &domain.TransferResult{
		Out: domain.Transaction{TransactionID: uuid.NewString(), TransactionType: domain.TransferOut, AccountID: sourceID, TargetAccountID: targetID, TransferGroupID: groupID, Amount: amount},
		In:  domain.Transaction{TransactionID: uuid.NewString(), TransactionType: domain.TransferIn, AccountID: targetID, TargetAccountID: sourceID, TransferGroupID: groupID, Amount: amount},
	}
	suite.mockLedger.On("Transfer", mock.Anything, mock.Anything, mock.Anything).Return(result, nil).Once()

	w := suite.postJSON("/api/v1/transactions/transfer", token, gin.H{
		"sourceAccountID": sourceID,
		"targetAccountID": targetID,
		"amount":          "40.00",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransferResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(groupID, resp.Out.TransferGroupID)
	suite.Equal(groupID, resp.In.TransferGroupID)
}

func TestTransactionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
