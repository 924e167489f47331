// Package memory provides an in-process implementation of the account,
// transaction and user repositories. It backs local development runs without a
// database and the concurrency property tests. The locking mirrors what the
// pgsql adapter gets from row locks: one mutex per account, always acquired in
// ascending account-number order so two transfers moving money in opposite
// directions between the same pair cannot deadlock.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/corebank/ledger_engine/internal/apperrors"
	"github.com/corebank/ledger_engine/internal/core/domain"
	portsrepo "github.com/corebank/ledger_engine/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// accountState pairs an account record with the mutex that serializes its
// balance mutations.
type accountState struct {
	mu      sync.Mutex
	account domain.Account
}

// Store holds all in-memory state. mapMu guards map/slice membership only;
// balance reads and writes go through the per-account mutex.
type Store struct {
	mapMu        sync.RWMutex
	accounts     map[string]*accountState
	users        map[string]domain.User
	userOrder    []string
	txnMu        sync.RWMutex
	transactions map[string]domain.Transaction
	txnOrder     []string
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]*accountState),
		users:        make(map[string]domain.User),
		transactions: make(map[string]domain.Transaction),
	}
}

var (
	_ portsrepo.AccountRepository     = (*Store)(nil)
	_ portsrepo.TransactionRepository = (*Store)(nil)
	_ portsrepo.UserRepository        = (*Store)(nil)
)

// --- AccountRepository ---

// SaveAccount persists a new account.
func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()
	if _, exists := s.accounts[account.AccountNumber]; exists {
		return apperrors.ErrValidation
	}
	s.accounts[account.AccountNumber] = &accountState{account: account}
	return nil
}

// FindAccountByNumber returns a copy of the account's committed state.
func (s *Store) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	state, err := s.accountState(accountNumber)
	if err != nil {
		return nil, err
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	cp := state.account
	return &cp, nil
}

// ListAccountsByUser returns copies of all accounts owned by the user.
func (s *Store) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	s.mapMu.RLock()
	states := make([]*accountState, 0)
	for _, state := range s.accounts {
		states = append(states, state)
	}
	s.mapMu.RUnlock()

	accounts := []domain.Account{}
	for _, state := range states {
		state.mu.Lock()
		if state.account.UserID == userID {
			accounts = append(accounts, state.account)
		}
		state.mu.Unlock()
	}
	return accounts, nil
}

// ExistsByAccountNumber reports whether the account number is taken.
func (s *Store) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	s.mapMu.RLock()
	defer s.mapMu.RUnlock()
	_, ok := s.accounts[accountNumber]
	return ok, nil
}

// --- TransactionRepository ---

// SaveTransaction applies the balance deltas and records the transaction as
// one atomic unit. Account locks are taken in ascending account-number order;
// every resulting balance is validated before any delta is applied, so a
// failed save leaves all balances exactly as they were.
func (s *Store) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	numbers := make([]string, 0, len(balanceChanges))
	for number := range balanceChanges {
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)

	states := make([]*accountState, 0, len(numbers))
	for _, number := range numbers {
		state, err := s.accountState(number)
		if err != nil {
			return err
		}
		states = append(states, state)
	}

	for _, state := range states {
		state.mu.Lock()
	}
	defer func() {
		for i := len(states) - 1; i >= 0; i-- {
			states[i].mu.Unlock()
		}
	}()

	// Check-then-act under the locks: no writer can land between the
	// validation and the apply.
	for i, number := range numbers {
		newBalance := states[i].account.Balance.Add(balanceChanges[number])
		if newBalance.IsNegative() {
			return apperrors.ErrInsufficientFunds
		}
	}

	// The record is written before the deltas: once the deltas are validated
	// the apply below cannot fail, so a rejected record (duplicate ID) leaves
	// every balance untouched.
	if err := s.SaveTransactionRecord(ctx, txn); err != nil {
		return err
	}

	now := time.Now().UTC()
	for i, number := range numbers {
		states[i].account.Balance = states[i].account.Balance.Add(balanceChanges[number])
		states[i].account.LastUpdatedAt = now
	}

	return nil
}

// SaveTransactionRecord persists a transaction row without touching balances.
func (s *Store) SaveTransactionRecord(ctx context.Context, txn domain.Transaction) error {
	s.txnMu.Lock()
	defer s.txnMu.Unlock()
	if _, exists := s.transactions[txn.TransactionID]; exists {
		return apperrors.ErrValidation
	}
	s.transactions[txn.TransactionID] = txn
	s.txnOrder = append(s.txnOrder, txn.TransactionID)
	return nil
}

// FindTransactionByID retrieves a transaction copy by identifier.
func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	s.txnMu.RLock()
	defer s.txnMu.RUnlock()
	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

// ListTransactionsByAccount returns the account's history, newest first, ties
// broken by transaction ID descending.
func (s *Store) ListTransactionsByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	s.txnMu.RLock()
	txns := []domain.Transaction{}
	for _, id := range s.txnOrder {
		txn := s.transactions[id]
		if touchesAccount(txn, accountNumber) {
			txns = append(txns, txn)
		}
	}
	s.txnMu.RUnlock()

	sortTransactions(txns)
	return txns, nil
}

// ListTransactionsByAccountAndDateRange filters the history to [start, end], inclusive.
func (s *Store) ListTransactionsByAccountAndDateRange(ctx context.Context, accountNumber string, start, end time.Time) ([]domain.Transaction, error) {
	all, err := s.ListTransactionsByAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	filtered := []domain.Transaction{}
	for _, txn := range all {
		if !txn.TransactionDate.Before(start) && !txn.TransactionDate.After(end) {
			filtered = append(filtered, txn)
		}
	}
	return filtered, nil
}

// ExistsByTransactionID reports whether the transaction identifier is taken.
func (s *Store) ExistsByTransactionID(ctx context.Context, transactionID string) (bool, error) {
	s.txnMu.RLock()
	defer s.txnMu.RUnlock()
	_, ok := s.transactions[transactionID]
	return ok, nil
}

// --- UserRepository ---

// SaveUser persists an owner record.
func (s *Store) SaveUser(ctx context.Context, user domain.User) error {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()
	if _, exists := s.users[user.UserID]; !exists {
		s.userOrder = append(s.userOrder, user.UserID)
	}
	s.users[user.UserID] = user
	return nil
}

// ExistsByUserID reports whether the owner exists.
func (s *Store) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	s.mapMu.RLock()
	defer s.mapMu.RUnlock()
	_, ok := s.users[userID]
	return ok, nil
}

// ListUsers returns all known owners in insertion order.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.mapMu.RLock()
	defer s.mapMu.RUnlock()
	users := make([]domain.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		users = append(users, s.users[id])
	}
	return users, nil
}

func (s *Store) accountState(accountNumber string) (*accountState, error) {
	s.mapMu.RLock()
	defer s.mapMu.RUnlock()
	state, ok := s.accounts[accountNumber]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return state, nil
}

func touchesAccount(txn domain.Transaction, accountNumber string) bool {
	if txn.FromAccountNumber != nil && *txn.FromAccountNumber == accountNumber {
		return true
	}
	if txn.ToAccountNumber != nil && *txn.ToAccountNumber == accountNumber {
		return true
	}
	return false
}

func sortTransactions(txns []domain.Transaction) {
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].TransactionDate.Equal(txns[j].TransactionDate) {
			return txns[i].TransactionDate.After(txns[j].TransactionDate)
		}
		return txns[i].TransactionID > txns[j].TransactionID
	})
}
