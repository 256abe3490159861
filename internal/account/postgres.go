package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	pgUniqueViolation = "23505"
	pgLockNotAvail    = "55P03"
)

// PostgresStore persists accounts and transactions in PostgreSQL. Mutations
// take a row lock (SELECT ... FOR UPDATE) scoped to a single transaction so
// that balance update and transaction insert commit or roll back together.
type PostgresStore struct {
	db          *pgxpool.Pool
	lockTimeout time.Duration
}

// NewPostgresStore builds a Postgres-backed account store. lockTimeout bounds
// how long a mutation waits for a contended account row.
func NewPostgresStore(db *pgxpool.Pool, lockTimeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, lockTimeout: lockTimeout}
}

// Create inserts a new account record.
func (s *PostgresStore) Create(ctx context.Context, acct Account) error {
	_, err := s.db.Exec(ctx, `INSERT INTO accounts (account_number, full_name, pin_hash, status, balance, created_at)
        VALUES ($1, $2, $3, $4, $5::numeric, $6)`,
		acct.AccountNumber, acct.FullName, acct.PINHash, string(acct.Status), acct.Balance.String(), acct.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrExists
		}
		return err
	}
	return nil
}

// Load fetches an account by its number.
func (s *PostgresStore) Load(ctx context.Context, accountNumber string) (Account, error) {
	row := s.db.QueryRow(ctx, `SELECT account_number, full_name, pin_hash, status, balance::text, created_at
        FROM accounts WHERE account_number = $1`, accountNumber)
	return scanAccount(row)
}

// Count returns the number of accounts on record.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Mutate applies fn to the account under an exclusive row lock and persists
// the result and the transaction record in the same database transaction.
// A lock wait exceeding the configured timeout fails with ErrBusy; an error
// from fn rolls everything back.
func (s *PostgresStore) Mutate(ctx context.Context, accountNumber string, fn MutateFunc) (Account, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Account{}, fmt.Errorf("begin mutate: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if s.lockTimeout > 0 {
		// lock_timeout cannot be bound as a parameter.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return Account{}, fmt.Errorf("set lock timeout: %w", err)
		}
	}

	row := tx.QueryRow(ctx, `SELECT account_number, full_name, pin_hash, status, balance::text, created_at
        FROM accounts WHERE account_number = $1 FOR UPDATE`, accountNumber)
	acct, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvail {
			return Account{}, ErrBusy
		}
		return Account{}, err
	}

	updated, txn, err := fn(ctx, acct)
	if err != nil {
		return Account{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE accounts SET full_name = $1, status = $2, balance = $3::numeric
        WHERE account_number = $4`,
		updated.FullName, string(updated.Status), updated.Balance.String(), accountNumber); err != nil {
		return Account{}, fmt.Errorf("persist account: %w", err)
	}

	if txn != nil {
		if _, err := tx.Exec(ctx, `INSERT INTO transactions (transaction_number, account_number, amount, charge, created_at)
            VALUES ($1, $2, $3::numeric, $4::numeric, $5)`,
			txn.TransactionNumber, txn.AccountNumber, txn.Amount.String(), txn.Charge.String(), txn.Timestamp.UTC()); err != nil {
			return Account{}, fmt.Errorf("persist transaction: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Account{}, fmt.Errorf("commit mutate: %w", err)
	}

	return updated, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (Account, error) {
	var (
		acct       Account
		status     string
		balanceStr string
		createdAt  time.Time
	)
	if err := row.Scan(&acct.AccountNumber, &acct.FullName, &acct.PINHash, &status, &balanceStr, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return Account{}, fmt.Errorf("parse balance %q: %w", balanceStr, err)
	}
	acct.Status = Status(status)
	acct.Balance = balance
	acct.CreatedAt = createdAt.UTC()
	return acct, nil
}
