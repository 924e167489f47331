package dto

import (
	"time"

	"github.com/corebank/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositRequest defines the data needed to credit an account.
type DepositRequest struct {
	AccountNumber string          `json:"accountNumber" binding:"required,acctnum"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description"`
}

// WithdrawRequest defines the data needed to debit an account.
type WithdrawRequest struct {
	AccountNumber string          `json:"accountNumber" binding:"required,acctnum"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description"`
}

// TransferRequest defines the data needed to move money between two ledger
// accounts.
type TransferRequest struct {
	FromAccountNumber string          `json:"fromAccountNumber" binding:"required,acctnum"`
	ToAccountNumber   string          `json:"toAccountNumber" binding:"required,acctnum"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	Description       string          `json:"description"`
}

// ExternalTransferRequest defines the data needed to send money to an account
// outside this ledger.
type ExternalTransferRequest struct {
	FromAccountNumber     string          `json:"fromAccountNumber" binding:"required,acctnum"`
	ExternalAccountNumber string          `json:"externalAccountNumber" binding:"required"`
	RoutingCode           string          `json:"routingCode" binding:"required"`
	Amount                decimal.Decimal `json:"amount" binding:"required"`
	Description           string          `json:"description"`
}

// TransactionResponse defines the data returned for a transaction record.
type TransactionResponse struct {
	TransactionID         string                   `json:"transactionID"`
	FromAccountNumber     *string                  `json:"fromAccountNumber,omitempty"`
	ToAccountNumber       *string                  `json:"toAccountNumber,omitempty"`
	ExternalAccountNumber *string                  `json:"externalAccountNumber,omitempty"`
	Amount                decimal.Decimal          `json:"amount"`
	TransactionType       domain.TransactionType   `json:"transactionType"`
	Status                domain.TransactionStatus `json:"status"`
	Description           string                   `json:"description"`
	TransactionDate       time.Time                `json:"transactionDate"`
	ReferenceNumber       string                   `json:"referenceNumber"`
	Remarks               string                   `json:"remarks,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:         txn.TransactionID,
		FromAccountNumber:     txn.FromAccountNumber,
		ToAccountNumber:       txn.ToAccountNumber,
		ExternalAccountNumber: txn.ExternalAccountNumber,
		Amount:                txn.Amount,
		TransactionType:       txn.TransactionType,
		Status:                txn.Status,
		Description:           txn.Description,
		TransactionDate:       txn.TransactionDate,
		ReferenceNumber:       txn.ReferenceNumber,
		Remarks:               txn.Remarks,
	}
}

// ToListTransactionResponse converts a slice of domain transactions to
// response DTOs.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(&txn)
	}
	return res
}

// ListTransactionsResponse wraps the list of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// DateRangeParams defines the query parameters for date-bounded history.
type DateRangeParams struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02T15:04:05"`
}
