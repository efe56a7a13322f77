package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store implementation backed by Redis.
//
// Expiry is delegated to Redis key TTLs, so Get never has to check
// freshness itself.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Store backed by the given Redis client.
func NewRedisStore(redisClient *redis.Client) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		redis: redisClient,
	}
}

// Get retrieves a cache entry by key.
// Returns ErrCacheMiss if the key doesn't exist.
func (s *RedisStore) Get(ctx context.Context, key string) (*CacheEntry, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	return &entry, nil
}

// Set stores an entry under key. The entry is removed from Redis
// automatically when the TTL elapses.
func (s *RedisStore) Set(ctx context.Context, key string, entry *CacheEntry, ttl time.Duration) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	CacheSize.Add(float64(len(data)))

	return nil
}

// Delete removes a cache entry.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// DeletePattern removes all entries in the middleware namespace whose key
// matches the pattern. Redis MATCH globs cannot express the patterns this
// package builds, so keys are scanned within the namespace and filtered
// client-side; each DEL is atomic with respect to concurrent reads.
func (s *RedisStore) DeletePattern(ctx context.Context, pattern *regexp.Regexp) (int, error) {
	var matched []string

	iter := s.redis.Scan(ctx, 0, keyNamespace+"*", 100).Iterator()
	for iter.Next(ctx) {
		if pattern.MatchString(iter.Val()) {
			matched = append(matched, iter.Val())
		}
	}
	if err := iter.Err(); err != nil {
		CacheErrors.WithLabelValues("delete_pattern").Inc()
		return 0, fmt.Errorf("redis scan: %w", err)
	}

	if len(matched) == 0 {
		return 0, nil
	}

	removed, err := s.redis.Del(ctx, matched...).Result()
	if err != nil {
		CacheErrors.WithLabelValues("delete_pattern").Inc()
		return int(removed), fmt.Errorf("redis del: %w", err)
	}

	return int(removed), nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)
