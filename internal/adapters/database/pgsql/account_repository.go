package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/corebank/ledger_engine/internal/apperrors"
	"github.com/corebank/ledger_engine/internal/core/domain"
	portsrepo "github.com/corebank/ledger_engine/internal/core/ports/repositories"
	"github.com/corebank/ledger_engine/internal/models"
	"github.com/corebank/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = "account_number, account_name, account_type, balance, routing_code, user_id, created_at, last_updated_at"

// PgxAccountRepository persists accounts in PostgreSQL.
type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates the pgsql account repository.
func NewAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// SaveAccount persists a new account row.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	model := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (account_number, account_name, account_type, balance, routing_code, user_id, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.AccountNumber,
		model.AccountName,
		model.AccountType,
		model.Balance,
		model.RoutingCode,
		model.UserID,
		model.CreatedAt,
		model.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account %s: %w", model.AccountNumber, err)
	}
	return nil
}

// FindAccountByNumber retrieves an account by its external account number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1;`

	model, err := scanAccount(r.Pool.QueryRow(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountNumber, err)
	}

	account := mapping.ToDomainAccount(model)
	return &account, nil
}

// ListAccountsByUser retrieves all accounts owned by the user.
func (r *PgxAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for user %s: %w", userID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		model, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for user %s: %w", userID, err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(model))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows for user %s: %w", userID, err)
	}
	return accounts, nil
}

// ExistsByAccountNumber reports whether the account number is already taken.
func (r *PgxAccountRepository) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1);`, accountNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account number existence: %w", err)
	}
	return exists, nil
}

// FindAccountsForUpdate locks the given accounts' rows and returns their
// current state. Account numbers are sorted before locking so every writer
// acquires row locks in the same global order. Must be called within a
// transaction. Returns apperrors.ErrNotFound if any account is missing.
func (r *PgxAccountRepository) FindAccountsForUpdate(ctx context.Context, tx pgx.Tx, accountNumbers []string) (map[string]domain.Account, error) {
	if len(accountNumbers) == 0 {
		return map[string]domain.Account{}, nil
	}

	ordered := append([]string(nil), accountNumbers...)
	sort.Strings(ordered)

	locked := make(map[string]domain.Account, len(ordered))
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1 FOR UPDATE;`
	for _, number := range ordered {
		model, err := scanAccount(tx.QueryRow(ctx, query, number))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, number)
			}
			return nil, fmt.Errorf("failed to lock account %s: %w", number, err)
		}
		locked[number] = mapping.ToDomainAccount(model)
	}
	return locked, nil
}

// UpdateAccountBalancesInTx applies the balance deltas within the given
// transaction. Callers must already hold the row locks via
// FindAccountsForUpdate.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	query := `UPDATE accounts SET balance = balance + $2, last_updated_at = $3 WHERE account_number = $1;`

	batch := &pgx.Batch{}
	for accountNumber, delta := range balanceChanges {
		if delta.IsZero() {
			continue
		}
		batch.Queue(query, accountNumber, delta, now)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to apply balance updates: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (models.Account, error) {
	var model models.Account
	err := row.Scan(
		&model.AccountNumber,
		&model.AccountName,
		&model.AccountType,
		&model.Balance,
		&model.RoutingCode,
		&model.UserID,
		&model.CreatedAt,
		&model.LastUpdatedAt,
	)
	return model, err
}
