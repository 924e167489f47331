package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the product category of an account.
type AccountType string

const (
	Savings          AccountType = "SAVINGS"
	Current          AccountType = "CURRENT"
	FixedDeposit     AccountType = "FIXED_DEPOSIT"
	RecurringDeposit AccountType = "RECURRING_DEPOSIT"
)

// DefaultRoutingCode is the institution code stamped on every account at creation.
const DefaultRoutingCode = "BANK0001234"

// Account represents a customer account within the core domain.
// AccountNumber is the externally visible identity; it is immutable after
// creation and distinct from any storage surrogate key. Balance is only ever
// mutated through the transaction repository's atomic save, never assigned
// directly.
type Account struct {
	AccountNumber string          `json:"accountNumber"` // 10-digit numeric string, globally unique
	AccountName   string          `json:"accountName"`   // Optional display name
	AccountType   AccountType     `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"` // Invariant: >= 0 as observed by any committed read
	RoutingCode   string          `json:"routingCode"`
	UserID        string          `json:"userID"` // Owning user reference
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}
