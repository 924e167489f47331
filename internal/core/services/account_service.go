package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/corebank/ledger_engine/internal/apperrors"
	"github.com/corebank/ledger_engine/internal/core/domain"
	portsrepo "github.com/corebank/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/corebank/ledger_engine/internal/core/ports/services"
	"github.com/corebank/ledger_engine/internal/middleware"
	"github.com/corebank/ledger_engine/internal/utils/identifier"
	"github.com/shopspring/decimal"
)

// accountService owns account records and their balances. Balances are never
// assigned here; they change only through the transfer engine's atomic save.
type accountService struct {
	accountRepo portsrepo.AccountRepository
	userRepo    portsrepo.UserRepository
	idGen       *identifier.Generator
}

// NewAccountService creates the account store service.
func NewAccountService(accountRepo portsrepo.AccountRepository, userRepo portsrepo.UserRepository, idGen *identifier.Generator) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		idGen:       idGen,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount opens a zero-balance account for an existing owner. The
// account number comes from the identifier generator, verified against the
// store with a bounded retry.
func (s *accountService) CreateAccount(ctx context.Context, userID string, accountType domain.AccountType, accountName string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	exists, err := s.userRepo.ExistsByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to check owner existence", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to check owner existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}

	accountNumber, err := s.idGen.NextAccountNumber(ctx, s.accountRepo.ExistsByAccountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrExhaustedRetries) {
			logger.Error("Failed to allocate account number", slog.String("error", err.Error()))
		}
		return nil, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountNumber: accountNumber,
		AccountName:   strings.TrimSpace(accountName),
		AccountType:   accountType,
		Balance:       decimal.Zero,
		RoutingCode:   domain.DefaultRoutingCode,
		UserID:        userID,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_number", accountNumber), slog.String("account_type", string(accountType)), slog.String("user_id", userID))
	return &account, nil
}

// GetAccountByNumber retrieves an account by its external number.
func (s *accountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by number", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		}
		return nil, err
	}
	return account, nil
}

// ListUserAccounts retrieves all accounts owned by a user, in arbitrary order.
func (s *accountService) ListUserAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	exists, err := s.userRepo.ExistsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check owner existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}

	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to list accounts for user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

// GetAccountBalance returns the committed balance of an account.
func (s *accountService) GetAccountBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error) {
	account, err := s.GetAccountByNumber(ctx, accountNumber)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}
