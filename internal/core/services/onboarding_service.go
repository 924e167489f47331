package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corebank/ledger_engine/internal/core/domain"
	portsrepo "github.com/corebank/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/corebank/ledger_engine/internal/core/ports/services"
	"github.com/corebank/ledger_engine/internal/middleware"
	"github.com/corebank/ledger_engine/internal/utils/identifier"
	"github.com/shopspring/decimal"
)

// Opening balances for the default accounts created per new owner.
var (
	savingsOpeningBalance = decimal.RequireFromString("10000.00")
	currentOpeningBalance = decimal.RequireFromString("5000.00")
)

// Owner provisioned on a fresh deployment with no owners at all. Real owners
// arrive through the external registration collaborator.
const (
	defaultOwnerID   = "owner-0001"
	defaultOwnerName = "Default Owner"
)

// onboardingService creates the default account pair for owners that have
// none yet. Opening balances are written at account creation, the one place
// outside the transfer engine where a balance is set.
type onboardingService struct {
	userRepo    portsrepo.UserRepository
	accountRepo portsrepo.AccountRepository
	idGen       *identifier.Generator
}

// NewOnboardingService creates the startup seeder.
func NewOnboardingService(userRepo portsrepo.UserRepository, accountRepo portsrepo.AccountRepository, idGen *identifier.Generator) portssvc.OnboardingSvcFacade {
	return &onboardingService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		idGen:       idGen,
	}
}

var _ portssvc.OnboardingSvcFacade = (*onboardingService)(nil)

// SeedDefaultAccounts walks all known owners and creates a seeded SAVINGS and
// CURRENT account for each owner that has no accounts yet. A store with no
// owners at all first gets the default owner, so a fresh deployment has an
// account to operate on.
func (s *onboardingService) SeedDefaultAccounts(ctx context.Context) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users for seeding: %w", err)
	}

	if len(users) == 0 {
		owner := domain.User{
			UserID:    defaultOwnerID,
			Name:      defaultOwnerName,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.userRepo.SaveUser(ctx, owner); err != nil {
			return fmt.Errorf("failed to provision default owner: %w", err)
		}
		logger.Info("Provisioned default owner", slog.String("user_id", owner.UserID))
		users = []domain.User{owner}
	}

	for _, user := range users {
		existing, err := s.accountRepo.ListAccountsByUser(ctx, user.UserID)
		if err != nil {
			return fmt.Errorf("failed to list accounts for user %s: %w", user.UserID, err)
		}
		if len(existing) > 0 {
			continue
		}

		logger.Info("Creating default accounts for user", slog.String("user_id", user.UserID))

		if err := s.createSeededAccount(ctx, user.UserID, domain.Savings, "My Savings Account", savingsOpeningBalance); err != nil {
			return err
		}
		if err := s.createSeededAccount(ctx, user.UserID, domain.Current, "My Current Account", currentOpeningBalance); err != nil {
			return err
		}

		logger.Info("Created 2 default accounts for user", slog.String("user_id", user.UserID))
	}

	return nil
}

func (s *onboardingService) createSeededAccount(ctx context.Context, userID string, accountType domain.AccountType, name string, openingBalance decimal.Decimal) error {
	accountNumber, err := s.idGen.NextAccountNumber(ctx, s.accountRepo.ExistsByAccountNumber)
	if err != nil {
		return fmt.Errorf("failed to allocate account number for user %s: %w", userID, err)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountNumber: accountNumber,
		AccountName:   name,
		AccountType:   accountType,
		Balance:       openingBalance,
		RoutingCode:   domain.DefaultRoutingCode,
		UserID:        userID,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return fmt.Errorf("failed to save seeded account for user %s: %w", userID, err)
	}
	return nil
}
