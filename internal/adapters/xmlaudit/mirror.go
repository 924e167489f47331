// Package xmlaudit implements the audit ledger mirror as a single XML file.
// Every append reads the whole file, adds the new entry in memory and rewrites
// the collection. O(n) per append is acceptable because the mirror is off the
// hot path of any financial guarantee; it must never decide whether a transfer
// succeeded. Writes go through a temp file and rename so a crashed rewrite
// never corrupts the existing log.
package xmlaudit

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/corebank/ledger_engine/internal/core/domain"
	portsrepo "github.com/corebank/ledger_engine/internal/core/ports/repositories"
)

// Mirror appends committed transactions to an XML file. A single mutex
// serializes all access: concurrent appends would otherwise lose entries to
// the read-modify-rewrite race.
type Mirror struct {
	path string
	mu   sync.Mutex
}

// NewMirror creates a mirror writing to the given file path. The file is
// created lazily on first append.
func NewMirror(path string) *Mirror {
	return &Mirror{path: path}
}

var _ portsrepo.AuditMirror = (*Mirror)(nil)

type transactionsWrapper struct {
	XMLName      xml.Name            `xml:"transactions"`
	Transactions []domain.AuditEntry `xml:"transaction"`
}

// Append converts the transaction into an audit entry and rewrites the file
// with the entry added, preserving existing contents.
func (m *Mirror) Append(ctx context.Context, txn domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	wrapper, err := m.load()
	if err != nil {
		return fmt.Errorf("failed to load audit log before append: %w", err)
	}
	wrapper.Transactions = append(wrapper.Transactions, toAuditEntry(txn))
	if err := m.writeAll(wrapper); err != nil {
		return fmt.Errorf("failed to rewrite audit log: %w", err)
	}
	return nil
}

// ListAll returns every entry in append order.
func (m *Mirror) ListAll(ctx context.Context) ([]domain.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wrapper, err := m.load()
	if err != nil {
		return nil, fmt.Errorf("failed to load audit log: %w", err)
	}
	return wrapper.Transactions, nil
}

// ListByAccount returns entries where the account appears on either side.
func (m *Mirror) ListByAccount(ctx context.Context, accountNumber string) ([]domain.AuditEntry, error) {
	all, err := m.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := []domain.AuditEntry{}
	for _, entry := range all {
		if entry.Touches(accountNumber) {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

// ListByAccountAndDateRange filters by inclusive [start, end] bounds. The
// stored timestamp format is fixed-width and zero-padded, so plain string
// comparison matches chronological order.
func (m *Mirror) ListByAccountAndDateRange(ctx context.Context, accountNumber, start, end string) ([]domain.AuditEntry, error) {
	byAccount, err := m.ListByAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	filtered := []domain.AuditEntry{}
	for _, entry := range byAccount {
		if entry.TransactionDate >= start && entry.TransactionDate <= end {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

// load reads the current file contents, treating a missing or empty file as
// an empty log.
func (m *Mirror) load() (transactionsWrapper, error) {
	wrapper := transactionsWrapper{Transactions: []domain.AuditEntry{}}

	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return wrapper, nil
		}
		return wrapper, err
	}
	if len(data) == 0 {
		return wrapper, nil
	}
	if err := xml.Unmarshal(data, &wrapper); err != nil {
		return wrapper, err
	}
	if wrapper.Transactions == nil {
		wrapper.Transactions = []domain.AuditEntry{}
	}
	return wrapper, nil
}

// writeAll marshals the full collection to a temp file and renames it over
// the log.
func (m *Mirror) writeAll(wrapper transactionsWrapper) error {
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := xml.MarshalIndent(wrapper, "", "  ")
	if err != nil {
		return err
	}
	data = append([]byte(xml.Header), data...)

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.path)
}

// toAuditEntry flattens a transaction into its string-oriented projection.
// For an external transfer the external account number fills the to-side,
// matching the one-sided interbank leg.
func toAuditEntry(txn domain.Transaction) domain.AuditEntry {
	entry := domain.AuditEntry{
		TransactionID:   txn.TransactionID,
		Amount:          txn.Amount.StringFixed(2),
		TransactionType: string(txn.TransactionType),
		Status:          string(txn.Status),
		Description:     txn.Description,
		TransactionDate: txn.TransactionDate.Format(domain.AuditTimeLayout),
		ReferenceNumber: txn.ReferenceNumber,
	}
	if txn.FromAccountNumber != nil {
		entry.FromAccountNumber = *txn.FromAccountNumber
	}
	switch {
	case txn.ToAccountNumber != nil:
		entry.ToAccountNumber = *txn.ToAccountNumber
	case txn.ExternalAccountNumber != nil:
		entry.ToAccountNumber = *txn.ExternalAccountNumber
	}
	return entry
}
