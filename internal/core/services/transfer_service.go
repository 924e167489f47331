package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corebank/ledger_engine/internal/apperrors"
	"github.com/corebank/ledger_engine/internal/core/domain"
	portsrepo "github.com/corebank/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/corebank/ledger_engine/internal/core/ports/services"
	"github.com/corebank/ledger_engine/internal/middleware"
	"github.com/corebank/ledger_engine/internal/utils/identifier"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// transferService orchestrates deposits, withdrawals and transfers as atomic
// all-or-nothing operations against the account store, drives each transaction
// through its status state machine, and mirrors committed transactions into
// the audit log.
type transferService struct {
	accountRepo portsrepo.AccountRepository
	txnRepo     portsrepo.TransactionRepository
	auditMirror portsrepo.AuditMirror
	idGen       *identifier.Generator
}

// NewTransferService creates the transfer engine.
func NewTransferService(accountRepo portsrepo.AccountRepository, txnRepo portsrepo.TransactionRepository, auditMirror portsrepo.AuditMirror, idGen *identifier.Generator) portssvc.TransferSvcFacade {
	return &transferService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		auditMirror: auditMirror,
		idGen:       idGen,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// Deposit credits an account. A deposit cannot fail once the account is
// confirmed to exist, aside from infrastructure failure, so the transaction is
// committed directly in COMPLETED.
func (s *transferService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	txn, err := s.newTransaction(ctx, domain.Deposit, amount, description, "Deposit")
	if err != nil {
		return nil, err
	}
	txn.ToAccountNumber = &account.AccountNumber

	changes := map[string]decimal.Decimal{account.AccountNumber: amount}
	if err := s.commitTransaction(ctx, &txn, changes, "Deposit failed"); err != nil {
		return nil, err
	}

	logger.Info("Deposit completed", slog.String("transaction_id", txn.TransactionID), slog.String("account_number", account.AccountNumber), slog.String("amount", amount.StringFixed(2)))
	s.mirrorToAudit(ctx, txn)
	return &txn, nil
}

// Withdraw debits an account after a balance check. On insufficient funds the
// attempt is recorded as a FAILED transaction and the call fails; the balance
// is untouched.
func (s *transferService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	txn, err := s.newTransaction(ctx, domain.Withdrawal, amount, description, "Withdrawal")
	if err != nil {
		return nil, err
	}
	txn.FromAccountNumber = &account.AccountNumber

	if account.Balance.LessThan(amount) {
		return nil, s.failTransaction(ctx, &txn, "Withdrawal failed: insufficient balance", apperrors.ErrInsufficientFunds)
	}

	changes := map[string]decimal.Decimal{account.AccountNumber: amount.Neg()}
	if err := s.commitTransaction(ctx, &txn, changes, "Withdrawal failed"); err != nil {
		return nil, err
	}

	logger.Info("Withdrawal completed", slog.String("transaction_id", txn.TransactionID), slog.String("account_number", account.AccountNumber), slog.String("amount", amount.StringFixed(2)))
	s.mirrorToAudit(ctx, txn)
	return &txn, nil
}

// TransferInternal moves funds between two ledger accounts as one atomic unit:
// no state in which money has left the source but not reached the destination
// is ever observable.
func (s *transferService) TransferInternal(ctx context.Context, fromNumber, toNumber string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if fromNumber == toNumber {
		return nil, apperrors.ErrSameAccount
	}

	fromAccount, err := s.accountRepo.FindAccountByNumber(ctx, fromNumber)
	if err != nil {
		return nil, err
	}
	toAccount, err := s.accountRepo.FindAccountByNumber(ctx, toNumber)
	if err != nil {
		return nil, err
	}

	txn, err := s.newTransaction(ctx, domain.Transfer, amount, description, "Fund transfer")
	if err != nil {
		return nil, err
	}
	txn.FromAccountNumber = &fromAccount.AccountNumber
	txn.ToAccountNumber = &toAccount.AccountNumber

	if fromAccount.Balance.LessThan(amount) {
		return nil, s.failTransaction(ctx, &txn, "Transaction failed: insufficient balance", apperrors.ErrInsufficientFunds)
	}

	changes := map[string]decimal.Decimal{
		fromAccount.AccountNumber: amount.Neg(),
		toAccount.AccountNumber:   amount,
	}
	if err := s.commitTransaction(ctx, &txn, changes, "Transaction failed"); err != nil {
		return nil, err
	}

	logger.Info("Transfer completed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("from_account", fromAccount.AccountNumber),
		slog.String("to_account", toAccount.AccountNumber),
		slog.String("amount", amount.StringFixed(2)))
	s.mirrorToAudit(ctx, txn)
	return &txn, nil
}

// TransferExternal debits the local account in favor of an account outside
// this ledger's authority. There is no credit leg; the counter-leg is settled
// by an external network. The routing code is recorded in the remarks.
func (s *transferService) TransferExternal(ctx context.Context, fromNumber, externalAccountNumber, routingCode string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	fromAccount, err := s.accountRepo.FindAccountByNumber(ctx, fromNumber)
	if err != nil {
		return nil, err
	}

	txn, err := s.newTransaction(ctx, domain.Transfer, amount, description, "External transfer")
	if err != nil {
		return nil, err
	}
	txn.FromAccountNumber = &fromAccount.AccountNumber
	txn.ExternalAccountNumber = &externalAccountNumber
	txn.Remarks = "Routing: " + routingCode

	if fromAccount.Balance.LessThan(amount) {
		return nil, s.failTransaction(ctx, &txn, "Transaction failed: insufficient balance", apperrors.ErrInsufficientFunds)
	}

	changes := map[string]decimal.Decimal{fromAccount.AccountNumber: amount.Neg()}
	if err := s.commitTransaction(ctx, &txn, changes, "Transaction failed"); err != nil {
		return nil, err
	}

	logger.Info("External transfer completed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("from_account", fromAccount.AccountNumber),
		slog.String("external_account", externalAccountNumber),
		slog.String("amount", amount.StringFixed(2)))
	s.mirrorToAudit(ctx, txn)
	return &txn, nil
}

// newTransaction allocates an identifier and builds a PENDING transaction.
func (s *transferService) newTransaction(ctx context.Context, kind domain.TransactionType, amount decimal.Decimal, description, defaultDescription string) (domain.Transaction, error) {
	transactionID, err := s.idGen.NextTransactionID(ctx, s.txnRepo.ExistsByTransactionID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if description == "" {
		description = defaultDescription
	}
	return domain.Transaction{
		TransactionID:   transactionID,
		Amount:          amount,
		TransactionType: kind,
		Status:          domain.StatusPending,
		Description:     description,
		TransactionDate: time.Now().UTC(),
		ReferenceNumber: uuid.NewString(),
	}, nil
}

// commitTransaction persists the transaction as COMPLETED together with its
// balance deltas in one atomic save. The caller's transaction stays PENDING
// until the save succeeds, so a save rejected by the store (storage failure,
// or the under-lock balance re-check) can still be resolved to FAILED.
func (s *transferService) commitTransaction(ctx context.Context, txn *domain.Transaction, changes map[string]decimal.Decimal, remarkPrefix string) error {
	committed := *txn
	if err := committed.TransitionTo(domain.StatusCompleted); err != nil {
		return err
	}
	if err := s.txnRepo.SaveTransaction(ctx, committed, changes); err != nil {
		return s.failTransaction(ctx, txn, remarkPrefix+": "+err.Error(), err)
	}
	*txn = committed
	return nil
}

// failTransaction resolves the transaction to FAILED with the remark,
// persists the record best-effort, and returns the originating error mapped
// onto the sentinel errors. If even the FAILED record cannot be persisted the
// caller must treat the outcome as unknown and re-query before retrying.
func (s *transferService) failTransaction(ctx context.Context, txn *domain.Transaction, remark string, cause error) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if terr := txn.TransitionTo(domain.StatusFailed); terr != nil {
		logger.Error("Could not mark transaction failed", slog.String("transaction_id", txn.TransactionID), slog.String("error", terr.Error()))
	}
	txn.Remarks = remark

	if serr := s.txnRepo.SaveTransactionRecord(ctx, *txn); serr != nil {
		logger.Error("Failed to persist FAILED transaction record; outcome must be re-queried before retry",
			slog.String("transaction_id", txn.TransactionID), slog.String("error", serr.Error()))
	}

	switch {
	case errors.Is(cause, apperrors.ErrInsufficientFunds),
		errors.Is(cause, apperrors.ErrNotFound),
		errors.Is(cause, apperrors.ErrSameAccount),
		errors.Is(cause, apperrors.ErrInvalidAmount):
		return cause
	default:
		return fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, cause)
	}
}

// mirrorToAudit appends the committed transaction to the audit mirror. A
// mirror failure is a warning-level degradation, never a reason to fail the
// already-committed financial operation.
func (s *transferService) mirrorToAudit(ctx context.Context, txn domain.Transaction) {
	if err := s.auditMirror.Append(ctx, txn); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Audit mirror append failed",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("error", err.Error()))
	}
}

func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, amount)
	}
	return nil
}
