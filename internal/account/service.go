package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPIN = "0000"
	minPINLen  = 4
)

var (
	// ErrIncorrectPIN occurs when login credentials do not match.
	ErrIncorrectPIN = errors.New("incorrect PIN")
	// ErrNotActive occurs when an operation requires an Active account.
	ErrNotActive = errors.New("account is not active")
	// ErrInvalidPIN occurs when a supplied PIN is too short.
	ErrInvalidPIN = errors.New("PIN must be at least 4 digits")
)

// Service handles account enrollment and credential checks. Balance
// mutations never go through here; those belong to the ledger core.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates an account service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// OpenInput captures data required to open an account.
type OpenInput struct {
	FirstName  string
	MiddleName string
	LastName   string
	PIN        string
}

// Open enrolls a new account holder: builds the display name, hashes the PIN
// (falling back to the default PIN when none is supplied) and assigns an
// account number of the form ddMMyy-HHmmss-NNN. Number assignment is a
// one-time formatting step at signup, not part of the concurrent ledger path.
func (s *Service) Open(ctx context.Context, input OpenInput) (Account, error) {
	pin := input.PIN
	if pin == "" {
		pin = defaultPIN
	}
	if len(pin) < minPINLen {
		return Account{}, ErrInvalidPIN
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("hash pin: %w", err)
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return Account{}, fmt.Errorf("count accounts: %w", err)
	}

	now := s.now()
	acct := Account{
		AccountNumber: fmt.Sprintf("%s-%s-%03d", now.Format("020106"), now.Format("150405"), count+1),
		FullName:      buildFullName(input.FirstName, input.MiddleName, input.LastName),
		PINHash:       hash,
		Status:        StatusActive,
		Balance:       decimal.Zero,
		CreatedAt:     now,
	}

	if err := s.store.Create(ctx, acct); err != nil {
		return Account{}, err
	}

	return acct, nil
}

// Authenticate verifies the account number and PIN and requires the account
// to be Active.
func (s *Service) Authenticate(ctx context.Context, accountNumber, pin string) (Account, error) {
	acct, err := s.store.Load(ctx, accountNumber)
	if err != nil {
		return Account{}, err
	}

	if err := bcrypt.CompareHashAndPassword(acct.PINHash, []byte(pin)); err != nil {
		return Account{}, ErrIncorrectPIN
	}

	if acct.Status != StatusActive {
		return Account{}, ErrNotActive
	}

	return acct, nil
}

func buildFullName(first, middle, last string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{first, middle, last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Unnamed User"
	}
	return strings.Join(parts, " ")
}
