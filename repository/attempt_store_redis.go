package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Govind-619/MakeOffer/negotiation"
	"github.com/Govind-619/MakeOffer/utils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	redisFieldAttempts = "attempts"
	redisFieldCounter  = "counter"

	// DefaultRedisKeyPrefix namespaces the attempt keys
	DefaultRedisKeyPrefix = "makeoffer"

	maxRedisTxRetries = 5
)

// ErrTooManyConflicts is returned when an optimistic update kept losing races
var ErrTooManyConflicts = errors.New("offer attempts update conflicted too many times")

// RedisAttemptStore keeps attempt state in Redis hashes with a TTL
type RedisAttemptStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisAttemptStore creates a Redis backed store
func NewRedisAttemptStore(client *redis.Client, prefix string, ttl time.Duration) *RedisAttemptStore {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	if ttl <= 0 {
		ttl = negotiation.StateTTL
	}
	return &RedisAttemptStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisAttemptStore) key(visitorKey, productID string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, visitorKey, negotiation.AttemptKey(productID))
}

func readRedisState(ctx context.Context, c redis.Cmdable, key string) (negotiation.State, error) {
	vals, err := c.HGetAll(ctx, key).Result()
	if err != nil {
		return negotiation.State{}, err
	}
	if len(vals) == 0 {
		return negotiation.State{}, nil
	}

	var state negotiation.State
	if raw, ok := vals[redisFieldAttempts]; ok {
		attempts, err := strconv.Atoi(raw)
		if err != nil {
			return negotiation.State{}, fmt.Errorf("corrupt attempts value %q: %w", raw, err)
		}
		state.Attempts = attempts
	}
	if raw, ok := vals[redisFieldCounter]; ok && raw != "" {
		counter, err := decimal.NewFromString(raw)
		if err != nil {
			return negotiation.State{}, fmt.Errorf("corrupt counter value %q: %w", raw, err)
		}
		state.LastCounter = decimal.NewNullDecimal(counter)
	}
	return state, nil
}

func (s *RedisAttemptStore) Get(ctx context.Context, visitorKey, productID string) (negotiation.State, error) {
	return readRedisState(ctx, s.client, s.key(visitorKey, productID))
}

// Update runs fn inside a WATCH/MULTI transaction, retrying when another
// writer touched the key in between.
func (s *RedisAttemptStore) Update(ctx context.Context, visitorKey, productID string, fn func(negotiation.State) (negotiation.State, error)) (negotiation.State, error) {
	key := s.key(visitorKey, productID)

	var result negotiation.State
	txf := func(tx *redis.Tx) error {
		prev, err := readRedisState(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := fn(prev)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next.IsZero() {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.HSet(ctx, key, redisFieldAttempts, next.Attempts)
			if next.LastCounter.Valid {
				pipe.HSet(ctx, key, redisFieldCounter, next.LastCounter.Decimal.String())
			} else {
				pipe.HDel(ctx, key, redisFieldCounter)
			}
			pipe.Expire(ctx, key, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		if next.IsZero() {
			next = negotiation.State{}
		}
		result = next
		return nil
	}

	for i := 0; i < maxRedisTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			utils.LogDebug("Retrying offer attempts update for key %s after conflict", key)
			continue
		}
		return negotiation.State{}, err
	}
	return negotiation.State{}, ErrTooManyConflicts
}

func (s *RedisAttemptStore) Clear(ctx context.Context, visitorKey, productID string) error {
	return s.client.Del(ctx, s.key(visitorKey, productID)).Err()
}
