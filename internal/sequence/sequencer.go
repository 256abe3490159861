package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable occurs when the underlying counter storage cannot be
// reached. Callers must not record a transaction without a sequencer-assigned
// number.
var ErrUnavailable = errors.New("sequencer unavailable")

// Sequencer assigns the daily transaction sequence: a strictly increasing
// integer shared by every account, restarting at 1 on the first call after
// midnight. The reset is lazy; nothing runs on a schedule.
type Sequencer interface {
	Next(ctx context.Context, now time.Time) (int64, error)
}

const (
	dayKeyPrefix = "txnseq:"
	dayKeyTTL    = 48 * time.Hour
)

// RedisSequencer increments a Redis counter keyed by calendar date. INCR is
// a single atomic round trip, so no two callers can ever observe the same
// value for a given day; rolling to a new day is just a key change.
type RedisSequencer struct {
	client *redis.Client
}

// NewRedisSequencer builds a Redis-backed daily sequencer.
func NewRedisSequencer(client *redis.Client) *RedisSequencer {
	return &RedisSequencer{client: client}
}

// Next returns the next sequence value for the calendar day of now.
func (s *RedisSequencer) Next(ctx context.Context, now time.Time) (int64, error) {
	key := dayKeyPrefix + now.Format("20060102")
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if n == 1 {
		// Expiry keeps finished days from accumulating; 48h comfortably
		// outlives the day the key serves. Failure to set it is harmless.
		s.client.Expire(ctx, key, dayKeyTTL)
	}
	return n, nil
}
