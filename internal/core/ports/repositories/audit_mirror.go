package repositories

import (
	"context"

	"github.com/corebank/ledger_engine/internal/core/domain"
)

// AuditMirror is the secondary, human-auditable log of committed transactions.
// It is best-effort redundancy: the transaction store remains the system of
// record, and a failed append never reverses a committed operation.
// Implementations must serialize concurrent appends (single-writer discipline).
type AuditMirror interface {
	// Append converts the transaction into an audit entry and appends it,
	// preserving existing contents.
	Append(ctx context.Context, txn domain.Transaction) error

	// ListAll returns every audit entry in append order.
	ListAll(ctx context.Context) ([]domain.AuditEntry, error)

	// ListByAccount returns entries touching the account on either side.
	ListByAccount(ctx context.Context, accountNumber string) ([]domain.AuditEntry, error)

	// ListByAccountAndDateRange filters ListByAccount to entries whose stored
	// timestamp lies within [start, end], inclusive. Bounds are compared as
	// strings in domain.AuditTimeLayout.
	ListByAccountAndDateRange(ctx context.Context, accountNumber, start, end string) ([]domain.AuditEntry, error)
}
