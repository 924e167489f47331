package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/corebank/ledger_engine/internal/apperrors"
	"github.com/corebank/ledger_engine/internal/core/domain"
	portsrepo "github.com/corebank/ledger_engine/internal/core/ports/repositories"
	"github.com/corebank/ledger_engine/internal/models"
	"github.com/corebank/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = "transaction_id, from_account_number, to_account_number, external_account_number, amount, transaction_type, status, description, transaction_date, reference_number, remarks"

// PgxTransactionRepository persists transactions in PostgreSQL.
type PgxTransactionRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
}

// NewTransactionRepository creates the pgsql transaction repository. The
// account repository provides the row-locking helpers used to apply balance
// changes atomically alongside the transaction record.
func NewTransactionRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

// SaveTransaction commits the transaction record and the balance deltas as
// one database transaction. Touched rows are locked FOR UPDATE in ascending
// account-number order, balances are re-verified under those locks, and
// everything rolls back if any resulting balance would go negative.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	accountNumbers := make([]string, 0, len(balanceChanges))
	for accountNumber := range balanceChanges {
		accountNumbers = append(accountNumbers, accountNumber)
	}

	locked, err := r.accountRepo.FindAccountsForUpdate(ctx, tx, accountNumbers)
	if err != nil {
		return err
	}

	for accountNumber, delta := range balanceChanges {
		newBalance := locked[accountNumber].Balance.Add(delta)
		if newBalance.IsNegative() {
			return fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, accountNumber)
		}
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, txn.TransactionDate); err != nil {
		return err
	}
	if err := insertTransaction(ctx, tx, txn); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveTransactionRecord persists a transaction row without touching balances.
func (r *PgxTransactionRepository) SaveTransactionRecord(ctx context.Context, txn domain.Transaction) error {
	return insertTransaction(ctx, r.Pool, txn)
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func insertTransaction(ctx context.Context, db execer, txn domain.Transaction) error {
	model := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (transaction_id, from_account_number, to_account_number, external_account_number, amount, transaction_type, status, description, transaction_date, reference_number, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := db.Exec(ctx, query,
		model.TransactionID,
		model.FromAccountNumber,
		model.ToAccountNumber,
		model.ExternalAccountNumber,
		model.Amount,
		model.TransactionType,
		model.Status,
		model.Description,
		model.TransactionDate,
		model.ReferenceNumber,
		model.Remarks,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", model.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its external identifier.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	model, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainTransaction(model)
	return &txn, nil
}

// ListTransactionsByAccount retrieves every transaction touching the account,
// newest first.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE from_account_number = $1 OR to_account_number = $1
		ORDER BY transaction_date DESC, transaction_id DESC;
	`
	return r.queryTransactions(ctx, query, accountNumber)
}

// ListTransactionsByAccountAndDateRange retrieves the account's transactions
// within [start, end], inclusive, newest first.
func (r *PgxTransactionRepository) ListTransactionsByAccountAndDateRange(ctx context.Context, accountNumber string, start, end time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE (from_account_number = $1 OR to_account_number = $1)
		  AND transaction_date >= $2 AND transaction_date <= $3
		ORDER BY transaction_date DESC, transaction_id DESC;
	`
	return r.queryTransactions(ctx, query, accountNumber, start, end)
}

// ExistsByTransactionID reports whether the transaction identifier is taken.
func (r *PgxTransactionRepository) ExistsByTransactionID(ctx context.Context, transactionID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE transaction_id = $1);`, transactionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check transaction ID existence: %w", err)
	}
	return exists, nil
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		model, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, mapping.ToDomainTransaction(model))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return transactions, nil
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var model models.Transaction
	err := row.Scan(
		&model.TransactionID,
		&model.FromAccountNumber,
		&model.ToAccountNumber,
		&model.ExternalAccountNumber,
		&model.Amount,
		&model.TransactionType,
		&model.Status,
		&model.Description,
		&model.TransactionDate,
		&model.ReferenceNumber,
		&model.Remarks,
	)
	return model, err
}
