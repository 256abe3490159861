package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalid indicates a token whose signature or structure does not verify.
	ErrInvalid = errors.New("token is invalid")
	// ErrExpired indicates a token past its expiry instant.
	ErrExpired = errors.New("token has expired")
	// ErrRevoked indicates a token present in the revocation set.
	ErrRevoked = errors.New("token has been revoked")
)

// Service issues, validates and revokes bearer session tokens. Validation is
// stateless (signature plus expiry) except for the revocation check, which
// consults the shared revocation store.
type Service struct {
	secret  []byte
	ttl     time.Duration
	revoked RevocationStore
	now     func() time.Time
}

// NewService builds a token service signing HS256 tokens with the given
// secret, valid for ttl from issuance.
func NewService(secret string, ttl time.Duration, revoked RevocationStore) *Service {
	return &Service{secret: []byte(secret), ttl: ttl, revoked: revoked, now: time.Now}
}

// Issue signs a token bound to the given account number.
func (s *Service) Issue(accountNumber string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   accountNumber,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, expiry and revocation state in that order and
// returns the account number the token authorizes.
func (s *Service) Validate(ctx context.Context, tokenStr string) (string, error) {
	subject, _, err := s.parse(tokenStr)
	if err != nil {
		return "", err
	}

	revoked, err := s.revoked.Contains(ctx, tokenStr)
	if err != nil {
		return "", fmt.Errorf("revocation lookup: %w", err)
	}
	if revoked {
		return "", ErrRevoked
	}

	return subject, nil
}

// Revoke inserts the token into the revocation set for the remainder of its
// lifetime. Invalid and expired tokens are rejected under the same rules as
// Validate; revoking an already revoked token succeeds.
func (s *Service) Revoke(ctx context.Context, tokenStr string) error {
	_, expiresAt, err := s.parse(tokenStr)
	if err != nil {
		return err
	}

	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return ErrExpired
	}

	if err := s.revoked.Add(ctx, tokenStr, ttl); err != nil {
		return fmt.Errorf("revocation store: %w", err)
	}
	return nil
}

func (s *Service) parse(tokenStr string) (string, time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", time.Time{}, ErrExpired
		}
		return "", time.Time{}, ErrInvalid
	}
	if claims.Subject == "" {
		return "", time.Time{}, ErrInvalid
	}
	return claims.Subject, claims.ExpiresAt.Time, nil
}
