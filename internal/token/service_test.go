package token

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestIssueAndValidate(t *testing.T) {
	svc := NewService("secret", time.Hour, NewMemoryRevocationStore())

	signed, err := svc.Issue("101025-135959-001")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	subject, err := svc.Validate(context.Background(), signed)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if subject != "101025-135959-001" {
		t.Fatalf("expected subject 101025-135959-001, got %s", subject)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewService("secret", time.Hour, NewMemoryRevocationStore())

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.Validate(context.Background(), tok); !errors.Is(err, ErrInvalid) {
			t.Fatalf("token %q: expected ErrInvalid, got %v", tok, err)
		}
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewService("secret-a", time.Hour, NewMemoryRevocationStore())
	verifier := NewService("secret-b", time.Hour, NewMemoryRevocationStore())

	signed, err := issuer.Issue("acct")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Validate(context.Background(), signed); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewService("secret", time.Minute, NewMemoryRevocationStore())

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }
	signed, err := svc.Issue("acct")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	if _, err := svc.Validate(context.Background(), signed); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if err := svc.Revoke(context.Background(), signed); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired on revoke, got %v", err)
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewService("secret", time.Hour, NewMemoryRevocationStore())

	signed, err := svc.Issue("acct")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := svc.Revoke(ctx, signed); err != nil {
		t.Fatalf("first revoke: %v", err)
	}
	if err := svc.Revoke(ctx, signed); err != nil {
		t.Fatalf("second revoke: %v", err)
	}

	if _, err := svc.Validate(ctx, signed); !errors.Is(err, ErrRevoked) {
		t.Fatalf("expected ErrRevoked, got %v", err)
	}
}

func TestRedisRevocationStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	store := NewRedisRevocationStore(client)

	revoked, err := store.Contains(ctx, "tok")
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if revoked {
		t.Fatal("token should not be revoked yet")
	}

	if err := store.Add(ctx, "tok", time.Minute); err != nil {
		t.Fatalf("add: %v", err)
	}
	revoked, err = store.Contains(ctx, "tok")
	if err != nil {
		t.Fatalf("contains after add: %v", err)
	}
	if !revoked {
		t.Fatal("token should be revoked")
	}

	// The entry disappears once the token's natural lifetime has passed.
	mr.FastForward(2 * time.Minute)
	revoked, err = store.Contains(ctx, "tok")
	if err != nil {
		t.Fatalf("contains after expiry: %v", err)
	}
	if revoked {
		t.Fatal("revocation entry should have expired")
	}
}

func TestServiceWithRedisRevocation(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	svc := NewService("secret", time.Hour, NewRedisRevocationStore(client))

	signed, err := svc.Issue("acct")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := svc.Revoke(ctx, signed); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.Validate(ctx, signed); !errors.Is(err, ErrRevoked) {
		t.Fatalf("expected ErrRevoked, got %v", err)
	}
}
