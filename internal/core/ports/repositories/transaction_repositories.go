package repositories

import (
	"context"
	"time"

	"github.com/corebank/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionWriter defines the write side of the transaction store.
type TransactionWriter interface {
	// SaveTransaction commits the transaction record and the given balance
	// deltas (keyed by account number, signed amounts) as one atomic unit.
	// Implementations must hold exclusive access to every touched account for
	// the duration of the mutation, acquire that access in ascending
	// account-number order, and re-verify under that exclusion that no balance
	// goes negative, returning apperrors.ErrInsufficientFunds and leaving all
	// balances untouched otherwise. A missing account yields
	// apperrors.ErrNotFound with no mutation applied.
	SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// SaveTransactionRecord persists a transaction row without touching any
	// balance. Used for FAILED records that document rejected or rolled-back
	// operations.
	SaveTransactionRecord(ctx context.Context, txn domain.Transaction) error
}

// TransactionReader defines the read side of the transaction store. All
// listings are ordered by transaction date descending, ties broken by
// transaction ID descending, so repeated reads are deterministic.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by its external identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccount retrieves every transaction that debits or
	// credits the given account.
	ListTransactionsByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error)

	// ListTransactionsByAccountAndDateRange retrieves the account's
	// transactions whose date falls within [start, end], inclusive.
	ListTransactionsByAccountAndDateRange(ctx context.Context, accountNumber string, start, end time.Time) ([]domain.Transaction, error)

	// ExistsByTransactionID reports whether a transaction identifier is taken.
	ExistsByTransactionID(ctx context.Context, transactionID string) (bool, error)
}

// TransactionRepository combines all transaction-related repository operations.
type TransactionRepository interface {
	TransactionWriter
	TransactionReader
}
