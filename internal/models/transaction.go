package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database representation of a transaction row. The
// account references and remarks are nullable: deposits have no source,
// withdrawals and external transfers no destination.
type Transaction struct {
	TransactionID         string
	FromAccountNumber     sql.NullString
	ToAccountNumber       sql.NullString
	ExternalAccountNumber sql.NullString
	Amount                decimal.Decimal
	TransactionType       string
	Status                string
	Description           string
	TransactionDate       time.Time
	ReferenceNumber       string
	Remarks               sql.NullString
}
