package services_test

import (
	"context"
	"testing"

	"github.com/corebank/ledger_engine/internal/core/domain"
	portssvc "github.com/corebank/ledger_engine/internal/core/ports/services"
	"github.com/corebank/ledger_engine/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type OnboardingServiceTestSuite struct {
	suite.Suite
	mockAccounts *MockAccountRepository
	mockUsers    *MockUserRepository
	service      portssvc.OnboardingSvcFacade
}

func (suite *OnboardingServiceTestSuite) SetupTest() {
	suite.mockAccounts = new(MockAccountRepository)
	suite.mockUsers = new(MockUserRepository)
	suite.service = services.NewOnboardingService(suite.mockUsers, suite.mockAccounts, fixedGenerator())
}

func (suite *OnboardingServiceTestSuite) TestSeedDefaultAccounts_CreatesPairForNewOwner() {
	ctx := context.Background()

	suite.mockUsers.On("ListUsers", ctx).Return([]domain.User{{UserID: "user-1", Name: "Asha"}}, nil).Once()
	suite.mockAccounts.On("ListAccountsByUser", ctx, "user-1").Return([]domain.Account{}, nil).Once()
	suite.mockAccounts.On("ExistsByAccountNumber", ctx, mock.AnythingOfType("string")).Return(false, nil).Twice()

	var seeded []domain.Account
	suite.mockAccounts.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Run(func(args mock.Arguments) {
		seeded = append(seeded, args.Get(1).(domain.Account))
	}).Return(nil).Twice()

	err := suite.service.SeedDefaultAccounts(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(seeded, 2)
	suite.Equal(domain.Savings, seeded[0].AccountType)
	suite.Equal("My Savings Account", seeded[0].AccountName)
	suite.True(seeded[0].Balance.Equal(decimal.RequireFromString("10000.00")))
	suite.Equal(domain.Current, seeded[1].AccountType)
	suite.Equal("My Current Account", seeded[1].AccountName)
	suite.True(seeded[1].Balance.Equal(decimal.RequireFromString("5000.00")))
	suite.mockAccounts.AssertExpectations(suite.T())
}

// A store with no owners at all gets the default owner provisioned before
// the account pair is seeded.
func (suite *OnboardingServiceTestSuite) TestSeedDefaultAccounts_ProvisionsOwnerWhenNoneExist() {
	ctx := context.Background()

	suite.mockUsers.On("ListUsers", ctx).Return([]domain.User{}, nil).Once()

	var owner domain.User
	suite.mockUsers.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Run(func(args mock.Arguments) {
		owner = args.Get(1).(domain.User)
	}).Return(nil).Once()
	suite.mockAccounts.On("ListAccountsByUser", ctx, "owner-0001").Return([]domain.Account{}, nil).Once()
	suite.mockAccounts.On("ExistsByAccountNumber", ctx, mock.AnythingOfType("string")).Return(false, nil).Twice()

	var seeded []domain.Account
	suite.mockAccounts.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Run(func(args mock.Arguments) {
		seeded = append(seeded, args.Get(1).(domain.Account))
	}).Return(nil).Twice()

	err := suite.service.SeedDefaultAccounts(ctx)

	suite.Require().NoError(err)
	suite.Equal("owner-0001", owner.UserID)
	suite.NotEmpty(owner.Name)
	suite.Require().Len(seeded, 2)
	suite.Equal("owner-0001", seeded[0].UserID)
	suite.Equal("owner-0001", seeded[1].UserID)
	suite.mockUsers.AssertExpectations(suite.T())
	suite.mockAccounts.AssertExpectations(suite.T())
}

func (suite *OnboardingServiceTestSuite) TestSeedDefaultAccounts_SkipsOwnersWithAccounts() {
	ctx := context.Background()

	suite.mockUsers.On("ListUsers", ctx).Return([]domain.User{{UserID: "user-1"}}, nil).Once()
	suite.mockAccounts.On("ListAccountsByUser", ctx, "user-1").Return([]domain.Account{{AccountNumber: "1450000000"}}, nil).Once()

	err := suite.service.SeedDefaultAccounts(ctx)

	suite.Require().NoError(err)
	suite.mockAccounts.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

// Seeding is idempotent: a second run after a successful one finds the pair
// and creates nothing.
func (suite *OnboardingServiceTestSuite) TestSeedDefaultAccounts_SecondRunIsNoop() {
	ctx := context.Background()

	suite.mockUsers.On("ListUsers", ctx).Return([]domain.User{{UserID: "user-1"}}, nil).Once()
	suite.mockAccounts.On("ListAccountsByUser", ctx, "user-1").Return([]domain.Account{
		{AccountNumber: "1450000000", AccountType: domain.Savings},
		{AccountNumber: "1450000001", AccountType: domain.Current},
	}, nil).Once()

	err := suite.service.SeedDefaultAccounts(ctx)

	suite.Require().NoError(err)
	suite.mockAccounts.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func TestOnboardingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OnboardingServiceTestSuite))
}
