package account

import (
	"context"
	"sync"
	"time"
)

const defaultLockWait = 3 * time.Second

// MemoryStore keeps accounts and transactions in process memory. It enforces
// the same per-account mutation discipline as the Postgres store and backs
// unit tests and development mode.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]Account
	txns     []Transaction
	locks    map[string]chan struct{}
	lockWait time.Duration
}

// NewMemoryStore builds a concurrency-safe in-memory store. lockWait bounds
// how long Mutate waits for a contended account.
func NewMemoryStore(lockWait time.Duration) *MemoryStore {
	if lockWait <= 0 {
		lockWait = defaultLockWait
	}
	return &MemoryStore{
		accounts: make(map[string]Account),
		locks:    make(map[string]chan struct{}),
		lockWait: lockWait,
	}
}

// Create inserts a new account record.
func (s *MemoryStore) Create(_ context.Context, acct Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[acct.AccountNumber]; exists {
		return ErrExists
	}
	s.accounts[acct.AccountNumber] = acct
	return nil
}

// Load fetches an account by its number.
func (s *MemoryStore) Load(_ context.Context, accountNumber string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[accountNumber]
	if !ok {
		return Account{}, ErrNotFound
	}
	return acct, nil
}

// Count returns the number of accounts on record.
func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.accounts)), nil
}

// Mutate serializes read-modify-write cycles per account. Different accounts
// mutate fully in parallel; the same account's mutations never interleave.
func (s *MemoryStore) Mutate(ctx context.Context, accountNumber string, fn MutateFunc) (Account, error) {
	lock := s.lockFor(accountNumber)

	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()
	select {
	case lock <- struct{}{}:
	case <-ctx.Done():
		return Account{}, ErrBusy
	case <-timer.C:
		return Account{}, ErrBusy
	}
	defer func() { <-lock }()

	s.mu.RLock()
	acct, ok := s.accounts[accountNumber]
	s.mu.RUnlock()
	if !ok {
		return Account{}, ErrNotFound
	}

	updated, txn, err := fn(ctx, acct)
	if err != nil {
		return Account{}, err
	}

	s.mu.Lock()
	s.accounts[accountNumber] = updated
	if txn != nil {
		s.txns = append(s.txns, *txn)
	}
	s.mu.Unlock()

	return updated, nil
}

func (s *MemoryStore) lockFor(accountNumber string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[accountNumber]
	if !ok {
		lock = make(chan struct{}, 1)
		s.locks[accountNumber] = lock
	}
	return lock
}
