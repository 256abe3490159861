package token

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:v1:"

// RevocationStore records tokens invalidated before their natural expiry.
// Reads far outnumber writes: every protected call checks membership while
// only logout inserts.
type RevocationStore interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
}

// RedisRevocationStore keeps revoked tokens in Redis with a TTL matching the
// token's remaining lifetime, so entries disappear once the token would have
// expired anyway.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore builds a Redis-backed revocation store.
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

// Add marks the token revoked. Re-adding an existing entry is a no-op.
func (s *RedisRevocationStore) Add(ctx context.Context, token string, ttl time.Duration) error {
	return s.client.Set(ctx, revokedKey(token), "1", ttl).Err()
}

// Contains reports whether the token has been revoked.
func (s *RedisRevocationStore) Contains(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedKeyPrefix + hex.EncodeToString(sum[:])
}

// MemoryRevocationStore is a process-local revocation set for tests and
// development mode. Entries are purged lazily on lookup once expired.
type MemoryRevocationStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationStore builds an in-memory revocation store.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{entries: make(map[string]time.Time), now: time.Now}
}

// Add marks the token revoked until its expiry.
func (s *MemoryRevocationStore) Add(_ context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = s.now().Add(ttl)
	return nil
}

// Contains reports whether the token has been revoked and is still within
// its lifetime.
func (s *MemoryRevocationStore) Contains(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.entries[token]
	if !ok {
		return false, nil
	}
	if s.now().After(expiry) {
		delete(s.entries, token)
		return false, nil
	}
	return true, nil
}
