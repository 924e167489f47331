package repositories

import (
	"context"

	"github.com/corebank/ledger_engine/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByNumber retrieves an account by its external account number.
	// Returns apperrors.ErrNotFound if absent.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ListAccountsByUser retrieves all accounts owned by a user. Returns an
	// empty slice when the user owns none.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)

	// ExistsByAccountNumber reports whether an account number is already taken.
	// Used by the identifier generator's collision check.
	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)
}

// AccountWriter defines write operations for account data. Balance mutation is
// deliberately absent: balances change only through
// TransactionWriter.SaveTransaction.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountRepository combines all account-related repository operations.
type AccountRepository interface {
	AccountReader
	AccountWriter
}
