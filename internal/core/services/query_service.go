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
)

// queryService provides the read-only lookups used by external collaborators.
// It reads from the transaction store and the audit mirror independently of
// writes.
type queryService struct {
	accountRepo portsrepo.AccountRepository
	txnRepo     portsrepo.TransactionRepository
	auditMirror portsrepo.AuditMirror
}

// NewQueryService creates the query façade.
func NewQueryService(accountRepo portsrepo.AccountRepository, txnRepo portsrepo.TransactionRepository, auditMirror portsrepo.AuditMirror) portssvc.QuerySvcFacade {
	return &queryService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		auditMirror: auditMirror,
	}
}

var _ portssvc.QuerySvcFacade = (*queryService)(nil)

// GetTransactionByID retrieves a single transaction by its external identifier.
func (s *queryService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

// ListAccountTransactions returns the account's history, newest first. Ties
// on the timestamp are broken by transaction identifier so repeated reads with
// no intervening writes return identical ordered results.
func (s *queryService) ListAccountTransactions(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	if err := s.requireAccount(ctx, accountNumber); err != nil {
		return nil, err
	}
	txns, err := s.txnRepo.ListTransactionsByAccount(ctx, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", accountNumber, err)
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, nil
}

// ListAccountTransactionsByDateRange filters the history to [start, end], inclusive.
func (s *queryService) ListAccountTransactionsByDateRange(ctx context.Context, accountNumber string, start, end time.Time) ([]domain.Transaction, error) {
	if err := s.requireAccount(ctx, accountNumber); err != nil {
		return nil, err
	}
	txns, err := s.txnRepo.ListTransactionsByAccountAndDateRange(ctx, accountNumber, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", accountNumber, err)
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, nil
}

// ListAuditEntries exports the full audit mirror contents.
func (s *queryService) ListAuditEntries(ctx context.Context) ([]domain.AuditEntry, error) {
	entries, err := s.auditMirror.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAuditMirror, err)
	}
	return entries, nil
}

// ListAuditEntriesByAccount exports the audit entries touching an account.
func (s *queryService) ListAuditEntriesByAccount(ctx context.Context, accountNumber string) ([]domain.AuditEntry, error) {
	entries, err := s.auditMirror.ListByAccount(ctx, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAuditMirror, err)
	}
	return entries, nil
}

// ListAuditEntriesByDateRange exports audit entries for an account within the
// inclusive [start, end] bounds, given in domain.AuditTimeLayout.
func (s *queryService) ListAuditEntriesByDateRange(ctx context.Context, accountNumber, start, end string) ([]domain.AuditEntry, error) {
	entries, err := s.auditMirror.ListByAccountAndDateRange(ctx, accountNumber, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAuditMirror, err)
	}
	return entries, nil
}

func (s *queryService) requireAccount(ctx context.Context, accountNumber string) error {
	_, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	return err
}
