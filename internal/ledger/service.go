package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jorieltejada28/banksystem-v2.1.1/internal/account"
	"github.com/jorieltejada28/banksystem-v2.1.1/internal/notification"
	"github.com/jorieltejada28/banksystem-v2.1.1/internal/sequence"
)

// ErrInvalidAmount occurs when a cash-in amount is zero or negative. The
// check runs before any lock is taken or state is touched.
var ErrInvalidAmount = errors.New("invalid amount")

// Service is the ledger operation core: it loads accounts, validates
// invariants, mutates balances and records one transaction per mutation.
// Authorization happens at the transport layer before any call lands here.
type Service struct {
	store    account.Store
	seq      sequence.Sequencer
	notifier notification.Notifier
	now      func() time.Time
}

// NewService builds the ledger service.
func NewService(store account.Store, seq sequence.Sequencer, notifier notification.Notifier) *Service {
	return &Service{store: store, seq: seq, notifier: notifier, now: time.Now}
}

// BalanceResult is the outcome of a balance inquiry.
type BalanceResult struct {
	AccountNumber string
	FullName      string
	Balance       decimal.Decimal
	Status        account.Status
	Timestamp     time.Time
}

// CashInResult is the outcome of a committed deposit.
type CashInResult struct {
	AccountNumber     string
	FullName          string
	NewBalance        decimal.Decimal
	TransactionNumber string
	Status            account.Status
	Timestamp         time.Time
}

// GetBalance reads the current balance. No mutation, no transaction record.
func (s *Service) GetBalance(ctx context.Context, accountNumber string) (BalanceResult, error) {
	acct, err := s.store.Load(ctx, accountNumber)
	if err != nil {
		return BalanceResult{}, err
	}
	return BalanceResult{
		AccountNumber: acct.AccountNumber,
		FullName:      acct.FullName,
		Balance:       acct.Balance,
		Status:        acct.Status,
		Timestamp:     s.now(),
	}, nil
}

// CashIn deposits amount into the account as a single logical unit: balance
// update, sequence assignment and transaction record commit together or not
// at all. The sequencer runs inside the mutation scope, so a sequencer
// failure aborts the deposit rather than leaving an unlogged balance change.
func (s *Service) CashIn(ctx context.Context, accountNumber string, amount decimal.Decimal) (CashInResult, error) {
	if amount.Sign() <= 0 {
		return CashInResult{}, ErrInvalidAmount
	}

	var txn account.Transaction
	updated, err := s.store.Mutate(ctx, accountNumber, func(ctx context.Context, acct account.Account) (account.Account, *account.Transaction, error) {
		if acct.Status != account.StatusActive {
			return account.Account{}, nil, account.ErrNotActive
		}

		now := s.now()
		seq, err := s.seq.Next(ctx, now)
		if err != nil {
			return account.Account{}, nil, err
		}

		acct.Balance = acct.Balance.Add(amount)
		txn = account.Transaction{
			TransactionNumber: TransactionNumber(now, seq),
			AccountNumber:     acct.AccountNumber,
			Amount:            amount,
			Charge:            decimal.Zero,
			Timestamp:         now,
		}
		return acct, &txn, nil
	})
	if err != nil {
		return CashInResult{}, err
	}

	if s.notifier != nil {
		// Best effort; the deposit has already committed.
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:          notification.KindCashIn,
			AccountNumber: updated.AccountNumber,
			Body:          fmt.Sprintf("Cash-in of %s recorded as %s", amount.StringFixed(2), txn.TransactionNumber),
		})
	}

	return CashInResult{
		AccountNumber:     updated.AccountNumber,
		FullName:          updated.FullName,
		NewBalance:        updated.Balance,
		TransactionNumber: txn.TransactionNumber,
		Status:            updated.Status,
		Timestamp:         txn.Timestamp,
	}, nil
}
