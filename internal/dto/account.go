package dto

import (
	"time"

	"github.com/corebank/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	UserID      string             `json:"userID" binding:"required"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=SAVINGS CURRENT FIXED_DEPOSIT RECURRING_DEPOSIT"`
	AccountName string             `json:"accountName" binding:"required"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountNumber string             `json:"accountNumber"`
	AccountName   string             `json:"accountName"`
	AccountType   domain.AccountType `json:"accountType"`
	Balance       decimal.Decimal    `json:"balance"`
	RoutingCode   string             `json:"routingCode"`
	UserID        string             `json:"userID"`
	CreatedAt     time.Time          `json:"createdAt"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountNumber: acc.AccountNumber,
		AccountName:   acc.AccountName,
		AccountType:   acc.AccountType,
		Balance:       acc.Balance,
		RoutingCode:   acc.RoutingCode,
		UserID:        acc.UserID,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain accounts to response DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// AccountBalanceResponse defines the data returned for a balance query.
type AccountBalanceResponse struct {
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
