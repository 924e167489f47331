package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Account is the database representation of an account row.
type Account struct {
	AccountNumber string
	AccountName   sql.NullString
	AccountType   string
	Balance       decimal.Decimal
	RoutingCode   string
	UserID        string
	CreatedAt     time.Time
	LastUpdatedAt time.Time
}
