// Package identifier allocates externally visible account numbers and
// transaction identifiers. Candidates are random enough to make collisions
// rare, then verified against the store and regenerated on collision. The
// randomness is a uniqueness mechanism, not a security one.
package identifier

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/corebank/ledger_engine/internal/apperrors"
)

const (
	// Account numbers are fixed-width 10-digit strings in [1000000000, 1899999999].
	accountNumberBase = 1_000_000_000
	accountNumberSpan = 900_000_000

	transactionIDPrefix = "TXN"

	// MaxAttempts bounds the collision-retry loop. A liveness bound only; with
	// a 9e8 identifier space it is not expected to trigger.
	MaxAttempts = 5
)

// ExistsFunc reports whether a candidate identifier is already taken.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// Generator produces candidate identifiers. Now and IntN are injectable for
// deterministic tests; New fills in the production defaults.
type Generator struct {
	Now  func() time.Time
	IntN func(n int64) int64
}

// New returns a Generator backed by the wall clock and math/rand.
func New() *Generator {
	return &Generator{
		Now:  time.Now,
		IntN: rand.Int63n,
	}
}

// NextAccountNumber allocates a free 10-digit account number, retrying on
// collision up to MaxAttempts times before failing with ErrExhaustedRetries.
func (g *Generator) NextAccountNumber(ctx context.Context, exists ExistsFunc) (string, error) {
	return g.next(ctx, g.accountNumber, exists)
}

// NextTransactionID allocates a free transaction identifier combining a fixed
// prefix, the current unix-millisecond time and a random 3-digit suffix.
func (g *Generator) NextTransactionID(ctx context.Context, exists ExistsFunc) (string, error) {
	return g.next(ctx, g.transactionID, exists)
}

func (g *Generator) next(ctx context.Context, candidate func() string, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		id := candidate()
		taken, err := exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to verify identifier candidate: %w", err)
		}
		if !taken {
			return id, nil
		}
	}
	return "", apperrors.ErrExhaustedRetries
}

func (g *Generator) accountNumber() string {
	return strconv.FormatInt(accountNumberBase+g.IntN(accountNumberSpan), 10)
}

func (g *Generator) transactionID() string {
	return fmt.Sprintf("%s%d%03d", transactionIDPrefix, g.Now().UnixMilli(), g.IntN(1000))
}
