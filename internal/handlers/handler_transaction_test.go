package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/corebank/ledger_engine/internal/apperrors"
	"github.com/corebank/ledger_engine/internal/core/domain"
	portssvc "github.com/corebank/ledger_engine/internal/core/ports/services"
	"github.com/corebank/ledger_engine/internal/dto"
	"github.com/corebank/ledger_engine/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, userID string, accountType domain.AccountType, accountName string) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountType, accountName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListUserAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountNumber)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock TransferService ---
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	args := m.Called(ctx, accountNumber, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransferService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	args := m.Called(ctx, accountNumber, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransferService) TransferInternal(ctx context.Context, fromNumber, toNumber string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	args := m.Called(ctx, fromNumber, toNumber, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransferService) TransferExternal(ctx context.Context, fromNumber, externalAccountNumber, routingCode string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	args := m.Called(ctx, fromNumber, externalAccountNumber, routingCode, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.TransferSvcFacade = (*MockTransferService)(nil)

// --- Mock QueryService ---
type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockQueryService) ListAccountTransactions(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockQueryService) ListAccountTransactionsByDateRange(ctx context.Context, accountNumber string, start, end time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountNumber, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockQueryService) ListAuditEntries(ctx context.Context) ([]domain.AuditEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEntry), args.Error(1)
}
func (m *MockQueryService) ListAuditEntriesByAccount(ctx context.Context, accountNumber string) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEntry), args.Error(1)
}
func (m *MockQueryService) ListAuditEntriesByDateRange(ctx context.Context, accountNumber, start, end string) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, accountNumber, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEntry), args.Error(1)
}

var _ portssvc.QuerySvcFacade = (*MockQueryService)(nil)

// --- Mock OnboardingService ---
type MockOnboardingService struct {
	mock.Mock
}

func (m *MockOnboardingService) SeedDefaultAccounts(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ portssvc.OnboardingSvcFacade = (*MockOnboardingService)(nil)

// --- Test Suite Setup ---

type TransactionHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockAccounts   *MockAccountService
	mockTransfers  *MockTransferService
	mockQueries    *MockQueryService
	mockOnboarding *MockOnboardingService
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockAccounts = new(MockAccountService)
	suite.mockTransfers = new(MockTransferService)
	suite.mockQueries = new(MockQueryService)
	suite.mockOnboarding = new(MockOnboardingService)

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &portssvc.ServiceContainer{
		Account:    suite.mockAccounts,
		Transfer:   suite.mockTransfers,
		Query:      suite.mockQueries,
		Onboarding: suite.mockOnboarding,
	})
}

func (suite *TransactionHandlerTestSuite) postJSON(path string, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestDeposit_Success() {
	to := "1000000001"
	txn := &domain.Transaction{
		TransactionID:   "TXN1",
		ToAccountNumber: &to,
		Amount:          decimal.RequireFromString("50.00"),
		TransactionType: domain.Deposit,
		Status:          domain.StatusCompleted,
		Description:     "Deposit",
	}
	suite.mockTransfers.On("Deposit", mock.Anything, "1000000001", mock.Anything, "").Return(txn, nil).Once()

	w := suite.postJSON("/api/v1/transactions/deposit", dto.DepositRequest{
		AccountNumber: "1000000001",
		Amount:        decimal.RequireFromString("50.00"),
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("TXN1", resp.TransactionID)
	suite.Equal(domain.StatusCompleted, resp.Status)
	suite.mockTransfers.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestDeposit_MalformedAccountNumberRejected() {
	w := suite.postJSON("/api/v1/transactions/deposit", dto.DepositRequest{
		AccountNumber: "12345",
		Amount:        decimal.RequireFromString("50.00"),
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTransfers.AssertNotCalled(suite.T(), "Deposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestWithdraw_InsufficientFunds() {
	suite.mockTransfers.On("Withdraw", mock.Anything, "1000000001", mock.Anything, "").
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	w := suite.postJSON("/api/v1/transactions/withdraw", dto.WithdrawRequest{
		AccountNumber: "1000000001",
		Amount:        decimal.RequireFromString("9999.00"),
	})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestTransfer_SameAccount() {
	suite.mockTransfers.On("TransferInternal", mock.Anything, "1000000001", "1000000001", mock.Anything, "").
		Return(nil, apperrors.ErrSameAccount).Once()

	w := suite.postJSON("/api/v1/transactions/transfer", dto.TransferRequest{
		FromAccountNumber: "1000000001",
		ToAccountNumber:   "1000000001",
		Amount:            decimal.RequireFromString("10.00"),
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_NotFound() {
	suite.mockQueries.On("GetTransactionByID", mock.Anything, "TXN-missing").
		Return(nil, apperrors.ErrNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/TXN-missing", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestListAccountTransactions_WithDateRange() {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	suite.mockQueries.On("ListAccountTransactionsByDateRange", mock.Anything, "1000000001", start, end).
		Return([]domain.Transaction{{TransactionID: "TXN1"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/accounts/1000000001/transactions?from=2025-01-01T00:00:00&to=2025-01-31T00:00:00", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Transactions, 1)
	suite.Equal("TXN1", resp.Transactions[0].TransactionID)
}

func (suite *TransactionHandlerTestSuite) TestCreateAccount_Success() {
	account := &domain.Account{
		AccountNumber: "1450000000",
		AccountName:   "Holiday Fund",
		AccountType:   domain.Savings,
		Balance:       decimal.Zero,
		RoutingCode:   domain.DefaultRoutingCode,
		UserID:        "user-1",
	}
	suite.mockAccounts.On("CreateAccount", mock.Anything, "user-1", domain.Savings, "Holiday Fund").
		Return(account, nil).Once()

	w := suite.postJSON("/api/v1/accounts", dto.CreateAccountRequest{
		UserID:      "user-1",
		AccountType: domain.Savings,
		AccountName: "Holiday Fund",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("1450000000", resp.AccountNumber)
}

func TestTransactionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
