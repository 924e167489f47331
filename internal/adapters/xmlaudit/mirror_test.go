package xmlaudit_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/corebank/ledger_engine/internal/adapters/xmlaudit"
	"github.com/corebank/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMirror(t *testing.T) (*xmlaudit.Mirror, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.xml")
	return xmlaudit.NewMirror(path), path
}

func committedTxn(id string, amount string, at time.Time) domain.Transaction {
	from := "1000000001"
	to := "1000000002"
	return domain.Transaction{
		TransactionID:     id,
		FromAccountNumber: &from,
		ToAccountNumber:   &to,
		Amount:            decimal.RequireFromString(amount),
		TransactionType:   domain.Transfer,
		Status:            domain.StatusCompleted,
		Description:       "Fund transfer",
		TransactionDate:   at,
		ReferenceNumber:   id + "-ref",
	}
}

func TestMirror_AppendAndListAll(t *testing.T) {
	mirror, path := newTestMirror(t)
	ctx := context.Background()
	at := time.Date(2025, 4, 10, 9, 30, 0, 0, time.UTC)

	require.NoError(t, mirror.Append(ctx, committedTxn("TXN1", "2500.00", at)))
	require.NoError(t, mirror.Append(ctx, committedTxn("TXN2", "10.50", at.Add(time.Minute))))

	entries, err := mirror.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Append order is preserved and the projection carries the flattened
	// transaction fields.
	assert.Equal(t, "TXN1", entries[0].TransactionID)
	assert.Equal(t, "2500.00", entries[0].Amount)
	assert.Equal(t, "TRANSFER", entries[0].TransactionType)
	assert.Equal(t, "COMPLETED", entries[0].Status)
	assert.Equal(t, "1000000001", entries[0].FromAccountNumber)
	assert.Equal(t, "1000000002", entries[0].ToAccountNumber)
	assert.Equal(t, "2025-04-10T09:30:00", entries[0].TransactionDate)
	assert.Equal(t, "TXN2", entries[1].TransactionID)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "<?xml"))
	assert.Contains(t, content, "<transactions>")
	assert.Contains(t, content, "<transaction>")
	assert.Contains(t, content, "<transactionId>TXN1</transactionId>")
}

func TestMirror_ListAllOnMissingFile(t *testing.T) {
	mirror, _ := newTestMirror(t)

	entries, err := mirror.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestMirror_AppendPreservesExistingEntries(t *testing.T) {
	mirror, path := newTestMirror(t)
	ctx := context.Background()
	at := time.Date(2025, 4, 10, 9, 30, 0, 0, time.UTC)

	require.NoError(t, mirror.Append(ctx, committedTxn("TXN1", "1.00", at)))

	// A fresh mirror over the same file must see and keep the earlier entry.
	reopened := xmlaudit.NewMirror(path)
	require.NoError(t, reopened.Append(ctx, committedTxn("TXN2", "2.00", at.Add(time.Hour))))

	entries, err := reopened.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "TXN1", entries[0].TransactionID)
	assert.Equal(t, "TXN2", entries[1].TransactionID)
}

func TestMirror_ExternalTransferFillsToSide(t *testing.T) {
	mirror, _ := newTestMirror(t)
	ctx := context.Background()

	from := "1000000001"
	external := "EXT-99887766"
	txn := domain.Transaction{
		TransactionID:         "TXN1",
		FromAccountNumber:     &from,
		ExternalAccountNumber: &external,
		Amount:                decimal.RequireFromString("75.00"),
		TransactionType:       domain.Transfer,
		Status:                domain.StatusCompleted,
		Description:           "External transfer",
		TransactionDate:       time.Date(2025, 4, 10, 9, 30, 0, 0, time.UTC),
		ReferenceNumber:       "ref-1",
	}
	require.NoError(t, mirror.Append(ctx, txn))

	entries, err := mirror.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, external, entries[0].ToAccountNumber)
}

func TestMirror_ListByAccount(t *testing.T) {
	mirror, _ := newTestMirror(t)
	ctx := context.Background()
	at := time.Date(2025, 4, 10, 9, 30, 0, 0, time.UTC)

	require.NoError(t, mirror.Append(ctx, committedTxn("TXN1", "1.00", at)))

	other := "1000000003"
	unrelated := committedTxn("TXN2", "2.00", at)
	unrelated.FromAccountNumber = &other
	unrelated.ToAccountNumber = &other
	require.NoError(t, mirror.Append(ctx, unrelated))

	entries, err := mirror.ListByAccount(ctx, "1000000002")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "TXN1", entries[0].TransactionID)
}

func TestMirror_ListByAccountAndDateRange_InclusiveBounds(t *testing.T) {
	mirror, _ := newTestMirror(t)
	ctx := context.Background()

	days := []time.Time{
		time.Date(2025, 4, 9, 23, 59, 59, 0, time.UTC),
		time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 11, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 12, 0, 0, 1, 0, time.UTC),
	}
	for i, at := range days {
		require.NoError(t, mirror.Append(ctx, committedTxn(fmt.Sprintf("TXN%d", i+1), "1.00", at)))
	}

	entries, err := mirror.ListByAccountAndDateRange(ctx, "1000000001",
		"2025-04-10T00:00:00", "2025-04-12T00:00:00")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "TXN2", entries[0].TransactionID)
	assert.Equal(t, "TXN3", entries[1].TransactionID)
}

// Concurrent appends must not lose entries to the read-modify-rewrite race.
func TestMirror_ConcurrentAppends(t *testing.T) {
	mirror, _ := newTestMirror(t)
	ctx := context.Background()
	at := time.Date(2025, 4, 10, 9, 30, 0, 0, time.UTC)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, mirror.Append(ctx, committedTxn(fmt.Sprintf("TXN%03d", i), "1.00", at)))
		}(i)
	}
	wg.Wait()

	entries, err := mirror.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, n)
}
