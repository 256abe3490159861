package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testAccount(number string) Account {
	return Account{
		AccountNumber: number,
		FullName:      "Juan Dela Cruz",
		PINHash:       []byte("hash"),
		Status:        StatusActive,
		Balance:       decimal.Zero,
		CreatedAt:     time.Now(),
	}
}

func TestMemoryStoreCreateAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	if err := store.Create(ctx, testAccount("acct-1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, testAccount("acct-1")); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	acct, err := store.Load(ctx, "acct-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if acct.FullName != "Juan Dela Cruz" {
		t.Fatalf("unexpected account: %+v", acct)
	}

	if _, err := store.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
}

func TestMemoryStoreMutatePersistsAccountAndTransaction(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	SeedAccount(store, testAccount("acct-1"))

	amount := decimal.RequireFromString("50.00")
	updated, err := store.Mutate(ctx, "acct-1", func(_ context.Context, acct Account) (Account, *Transaction, error) {
		acct.Balance = acct.Balance.Add(amount)
		txn := Transaction{
			TransactionNumber: "TXN-20251010-135959-123-01",
			AccountNumber:     acct.AccountNumber,
			Amount:            amount,
			Charge:            decimal.Zero,
			Timestamp:         time.Now(),
		}
		return acct, &txn, nil
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if !updated.Balance.Equal(amount) {
		t.Fatalf("expected balance 50.00, got %s", updated.Balance)
	}

	txns := TransactionsFor(store, "acct-1")
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].TransactionNumber != "TXN-20251010-135959-123-01" {
		t.Fatalf("unexpected transaction number %s", txns[0].TransactionNumber)
	}
}

func TestMemoryStoreMutateAbortsOnError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	SeedAccount(store, testAccount("acct-1"))

	boom := errors.New("boom")
	_, err := store.Mutate(ctx, "acct-1", func(_ context.Context, acct Account) (Account, *Transaction, error) {
		acct.Balance = acct.Balance.Add(decimal.NewFromInt(999))
		return acct, nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error to surface, got %v", err)
	}

	acct, err := store.Load(ctx, "acct-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !acct.Balance.IsZero() {
		t.Fatalf("balance changed despite aborted mutation: %s", acct.Balance)
	}
	if txns := TransactionsFor(store, "acct-1"); len(txns) != 0 {
		t.Fatalf("expected no transactions, got %d", len(txns))
	}
}

func TestMemoryStoreMutateUnknownAccount(t *testing.T) {
	store := NewMemoryStore(0)
	_, err := store.Mutate(context.Background(), "missing", func(_ context.Context, acct Account) (Account, *Transaction, error) {
		return acct, nil, nil
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreMutateSerializesPerAccount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(5 * time.Second)
	SeedAccount(store, testAccount("acct-1"))

	const workers = 25
	amount := decimal.NewFromInt(4)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Mutate(ctx, "acct-1", func(_ context.Context, acct Account) (Account, *Transaction, error) {
				acct.Balance = acct.Balance.Add(amount)
				txn := Transaction{
					TransactionNumber: fmt.Sprintf("TXN-test-%02d", i),
					AccountNumber:     acct.AccountNumber,
					Amount:            amount,
					Charge:            decimal.Zero,
					Timestamp:         time.Now(),
				}
				return acct, &txn, nil
			})
			if err != nil {
				t.Errorf("mutate: %v", err)
			}
		}(i)
	}
	wg.Wait()

	acct, err := store.Load(ctx, "acct-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := amount.Mul(decimal.NewFromInt(workers))
	if !acct.Balance.Equal(want) {
		t.Fatalf("lost update: expected balance %s, got %s", want, acct.Balance)
	}
	if txns := TransactionsFor(store, "acct-1"); len(txns) != workers {
		t.Fatalf("expected %d transaction records, got %d", workers, len(txns))
	}
}

func TestMemoryStoreMutateBoundedWait(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(50 * time.Millisecond)
	SeedAccount(store, testAccount("acct-1"))

	holding := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_, _ = store.Mutate(ctx, "acct-1", func(_ context.Context, acct Account) (Account, *Transaction, error) {
			close(holding)
			<-release
			return acct, nil, nil
		})
	}()

	<-holding
	_, err := store.Mutate(ctx, "acct-1", func(_ context.Context, acct Account) (Account, *Transaction, error) {
		return acct, nil, nil
	})
	close(release)

	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}
