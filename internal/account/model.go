package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status describes the lifecycle state of an account. Only Active accounts
// may have their balance mutated.
type Status string

const (
	StatusActive    Status = "Active"
	StatusSuspended Status = "Suspended"
	StatusClosed    Status = "Closed"
)

// Account is one account holder's ledger row. The balance is a non-negative
// fixed-point decimal; the account number is immutable once assigned.
type Account struct {
	AccountNumber string
	FullName      string
	PINHash       []byte
	Status        Status
	Balance       decimal.Decimal
	CreatedAt     time.Time
}

// Transaction is the append-only record of one balance-affecting event.
// A record is created exactly once, when the mutation commits, and is never
// updated or deleted. Amount is signed: positive for deposits, negative for
// withdrawals.
type Transaction struct {
	TransactionNumber string
	AccountNumber     string
	Amount            decimal.Decimal
	Charge            decimal.Decimal
	Timestamp         time.Time
}
