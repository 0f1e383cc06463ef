package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of *redis.Client / *redis.ClusterClient this
// store needs, so either can back it.
//
// Grounded on xxsc0529-genai-toolbox/internal/sources/redis/redis.go's
// RedisClient interface, which exists for exactly this reason: letting a
// single-node client and a cluster client satisfy the same narrow contract.
type RedisClient interface {
	Do(ctx context.Context, args ...any) *redis.Cmd
}

var (
	_ RedisClient = (*redis.Client)(nil)
	_ RedisClient = (*redis.ClusterClient)(nil)
)

const keyPrefix = "mcp:session:"

// RedisStore is a cache-backed Store. Sessions are serialized as JSON and
// written with an expiring key (SET key value EX ttl); a process crash
// loses nothing beyond what the TTL would have reaped anyway.
type RedisStore struct {
	client RedisClient
	ttl    time.Duration
}

// NewRedisStore constructs a RedisStore. ttl is the Redis key expiry
// applied on every Put; it should match the session store's configured
// session TTL, since Reap on this backend is a no-op (Redis expires keys
// itself - there is nothing to sweep).
func NewRedisStore(client RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	res := r.client.Do(ctx, "GET", keyPrefix+id)
	if err := res.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: redis get failed: %w", err)
	}

	raw, err := res.Text()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: redis get failed: %w", err)
	}

	s := &Session{}
	if err := json.Unmarshal([]byte(raw), s); err != nil {
		return nil, fmt.Errorf("session: decoding stored session: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encoding session: %w", err)
	}

	res := r.client.Do(ctx, "SET", keyPrefix+s.ID, string(data), "EX", int(r.ttl.Seconds()))
	if err := res.Err(); err != nil {
		return fmt.Errorf("session: redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	res := r.client.Do(ctx, "DEL", keyPrefix+id)
	return res.Err()
}

// Reap is a no-op for RedisStore: every key already carries its own TTL,
// so there is nothing for a sweeping pass to find and remove.
func (r *RedisStore) Reap(_ context.Context, _ time.Duration) (int, error) {
	return 0, nil
}
