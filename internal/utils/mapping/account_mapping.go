package mapping

import (
	"database/sql"

	"github.com/corebank/ledger_engine/internal/core/domain"
	"github.com/corebank/ledger_engine/internal/models"
)

// ToModelAccount converts a domain account to its database representation.
func ToModelAccount(account domain.Account) models.Account {
	return models.Account{
		AccountNumber: account.AccountNumber,
		AccountName:   nullString(account.AccountName),
		AccountType:   string(account.AccountType),
		Balance:       account.Balance,
		RoutingCode:   account.RoutingCode,
		UserID:        account.UserID,
		CreatedAt:     account.CreatedAt,
		LastUpdatedAt: account.LastUpdatedAt,
	}
}

// ToDomainAccount converts a database account row to its domain representation.
func ToDomainAccount(model models.Account) domain.Account {
	return domain.Account{
		AccountNumber: model.AccountNumber,
		AccountName:   model.AccountName.String,
		AccountType:   domain.AccountType(model.AccountType),
		Balance:       model.Balance,
		RoutingCode:   model.RoutingCode,
		UserID:        model.UserID,
		CreatedAt:     model.CreatedAt,
		LastUpdatedAt: model.LastUpdatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
