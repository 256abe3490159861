package account

import (
	"context"
	"errors"
)

var (
	// ErrNotFound occurs when no account exists for the requested number.
	ErrNotFound = errors.New("account not found")
	// ErrExists occurs when creating an account whose number is already taken.
	ErrExists = errors.New("account already exists")
	// ErrBusy occurs when the account's mutation lock cannot be acquired
	// within the configured bound.
	ErrBusy = errors.New("account is busy")
)

// MutateFunc inspects the current account state and returns the updated
// account plus an optional transaction record to append. Returning an error
// aborts the mutation with nothing persisted.
type MutateFunc func(ctx context.Context, acct Account) (Account, *Transaction, error)

// Store is the durable mapping from account number to account record.
//
// Mutate is the single allowed path for changing a balance: it acquires the
// account's exclusive mutation lock, loads the current record, applies fn,
// and persists the updated record together with the returned transaction in
// one atomic unit. The lock is per account, never global, and is released on
// every exit path. Lock acquisition is bounded; exceeding the bound fails
// with ErrBusy.
type Store interface {
	Create(ctx context.Context, acct Account) error
	Load(ctx context.Context, accountNumber string) (Account, error)
	Count(ctx context.Context) (int64, error)
	Mutate(ctx context.Context, accountNumber string, fn MutateFunc) (Account, error)
}
