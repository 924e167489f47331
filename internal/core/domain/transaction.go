package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the financial operation behind a transaction.
type TransactionType string

const (
	Deposit     TransactionType = "DEPOSIT"
	Withdrawal  TransactionType = "WITHDRAWAL"
	Transfer    TransactionType = "TRANSFER"
	BillPayment TransactionType = "BILL_PAYMENT"
	Recharge    TransactionType = "RECHARGE"
	Interest    TransactionType = "INTEREST"
)

// TransactionStatus is the state of a transaction in its lifecycle.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
	// StatusCancelled is reserved for a future manual-intervention flow.
	// No operation in this engine transitions into it.
	StatusCancelled TransactionStatus = "CANCELLED"
)

// Transaction records a single money movement. From/To account numbers are
// nullable: a deposit has no source, a withdrawal no destination, and an
// external transfer carries the counterparty in ExternalAccountNumber instead
// of a destination reference.
type Transaction struct {
	TransactionID         string            `json:"transactionID"` // Externally visible, unique, immutable
	FromAccountNumber     *string           `json:"fromAccountNumber,omitempty"`
	ToAccountNumber       *string           `json:"toAccountNumber,omitempty"`
	ExternalAccountNumber *string           `json:"externalAccountNumber,omitempty"`
	Amount                decimal.Decimal   `json:"amount"` // Invariant: > 0
	TransactionType       TransactionType   `json:"transactionType"`
	Status                TransactionStatus `json:"status"`
	Description           string            `json:"description"`
	TransactionDate       time.Time         `json:"transactionDate"` // Set once at creation
	ReferenceNumber       string            `json:"referenceNumber"`
	Remarks               string            `json:"remarks,omitempty"` // Failure reasons or routing metadata
}

// validTransitions encodes the status state machine: PENDING resolves to
// COMPLETED or FAILED, both of which are terminal.
var validTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:   {StatusCompleted, StatusFailed},
	StatusCompleted: nil,
	StatusFailed:    nil,
	StatusCancelled: nil,
}

// CanTransitionTo reports whether the state machine permits moving from s to next.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo advances the transaction status, rejecting any move the state
// machine does not permit. Statuses never revert to an earlier state.
func (t *Transaction) TransitionTo(next TransactionStatus) error {
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("invalid status transition from %s to %s for transaction %s", t.Status, next, t.TransactionID)
	}
	t.Status = next
	return nil
}

// IsTerminal reports whether the transaction has reached a final status.
func (t *Transaction) IsTerminal() bool {
	return len(validTransitions[t.Status]) == 0
}

// Validate checks the structural invariants of a transaction.
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("transaction amount must be positive, got %s", t.Amount)
	}
	if t.TransactionType == Transfer && t.FromAccountNumber != nil && t.ToAccountNumber != nil &&
		*t.FromAccountNumber == *t.ToAccountNumber {
		return fmt.Errorf("transfer source and destination must differ")
	}
	return nil
}
