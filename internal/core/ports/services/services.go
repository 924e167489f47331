package services

import (
	"context"
	"time"

	"github.com/corebank/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountSvcFacade exposes account store operations to the transport layer.
type AccountSvcFacade interface {
	// CreateAccount opens a new account for an existing owner with a zero
	// balance and a freshly allocated account number.
	CreateAccount(ctx context.Context, userID string, accountType domain.AccountType, accountName string) (*domain.Account, error)
	GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	ListUserAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	GetAccountBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error)
}

// TransferSvcFacade exposes the transfer engine. Every operation is atomic:
// either the full balance mutation and the COMPLETED record commit together,
// or no balance changes and at most a FAILED record remains.
type TransferSvcFacade interface {
	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*domain.Transaction, error)
	Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*domain.Transaction, error)
	TransferInternal(ctx context.Context, fromNumber, toNumber string, amount decimal.Decimal, description string) (*domain.Transaction, error)
	TransferExternal(ctx context.Context, fromNumber, externalAccountNumber, routingCode string, amount decimal.Decimal, description string) (*domain.Transaction, error)
}

// QuerySvcFacade exposes the read-only projections used by collaborators.
type QuerySvcFacade interface {
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListAccountTransactions(ctx context.Context, accountNumber string) ([]domain.Transaction, error)
	ListAccountTransactionsByDateRange(ctx context.Context, accountNumber string, start, end time.Time) ([]domain.Transaction, error)
	ListAuditEntries(ctx context.Context) ([]domain.AuditEntry, error)
	ListAuditEntriesByAccount(ctx context.Context, accountNumber string) ([]domain.AuditEntry, error)
	ListAuditEntriesByDateRange(ctx context.Context, accountNumber, start, end string) ([]domain.AuditEntry, error)
}

// OnboardingSvcFacade seeds default accounts for owners that have none.
type OnboardingSvcFacade interface {
	SeedDefaultAccounts(ctx context.Context) error
}

// ServiceContainer bundles the service facades handed to the transport layer.
type ServiceContainer struct {
	Account    AccountSvcFacade
	Transfer   TransferSvcFacade
	Query      QuerySvcFacade
	Onboarding OnboardingSvcFacade
}
