// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV is the Redis-backed implementation of the KV interface.
type RedisKV struct {
	client *redis.Client
	prefix string
	closed atomic.Bool
}

// RedisOptions configures the Redis store.
type RedisOptions struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	// Prefix is prepended to all keys (e.g., "oblog:")
	Prefix string

	// PoolSize is the maximum number of connections (0 = use default)
	PoolSize int

	// ConnectTimeout is the timeout for establishing a connection
	ConnectTimeout time.Duration

	// ReadTimeout is the timeout for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for write operations
	WriteTimeout time.Duration
}

// DefaultRedisOptions returns sensible defaults.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Prefix:         "oblog:",
		PoolSize:       10,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   3 * time.Second,
	}
}

// NewRedisKV connects to Redis and verifies the connection with a ping.
func NewRedisKV(opts RedisOptions) (*RedisKV, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, err
	}

	if opts.PoolSize > 0 {
		redisOpts.PoolSize = opts.PoolSize
	}
	if opts.ConnectTimeout > 0 {
		redisOpts.DialTimeout = opts.ConnectTimeout
	}
	if opts.ReadTimeout > 0 {
		redisOpts.ReadTimeout = opts.ReadTimeout
	}
	if opts.WriteTimeout > 0 {
		redisOpts.WriteTimeout = opts.WriteTimeout
	}

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisKV{
		client: client,
		prefix: opts.Prefix,
	}, nil
}

// NewRedisKVFromClient wraps an existing client. Used by tests (miniredis)
// and by callers that share the connection with the session store.
func NewRedisKVFromClient(client *redis.Client, prefix string) *RedisKV {
	return &RedisKV{
		client: client,
		prefix: prefix,
	}
}

// prefixKey adds the store prefix to a key.
func (s *RedisKV) prefixKey(key string) string {
	return s.prefix + key
}

// stripPrefix removes the store prefix from a scanned key.
func (s *RedisKV) stripPrefix(key string) string {
	return key[len(s.prefix):]
}

// Get implements KV.
func (s *RedisKV) Get(ctx context.Context, key string) (string, error) {
	if s.closed.Load() {
		return "", ErrStoreClosed
	}

	val, err := s.client.Get(ctx, s.prefixKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyMiss
		}
		return "", err
	}
	return val, nil
}

// Set implements KV.
func (s *RedisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	return s.client.Set(ctx, s.prefixKey(key), value, ttl).Err()
}

// HGet implements KV.
func (s *RedisKV) HGet(ctx context.Context, key, field string) (string, error) {
	if s.closed.Load() {
		return "", ErrStoreClosed
	}

	val, err := s.client.HGet(ctx, s.prefixKey(key), field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyMiss
		}
		return "", err
	}
	return val, nil
}

// HSet implements KV.
func (s *RedisKV) HSet(ctx context.Context, key string, fields map[string]string) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if len(fields) == 0 {
		return nil
	}

	args := make([]any, 0, len(fields)*2)
	for f, v := range fields {
		args = append(args, f, v)
	}
	return s.client.HSet(ctx, s.prefixKey(key), args...).Err()
}

// HGetAll implements KV.
func (s *RedisKV) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}
	return s.client.HGetAll(ctx, s.prefixKey(key)).Result()
}

// Exists implements KV.
func (s *RedisKV) Exists(ctx context.Context, key string) (bool, error) {
	if s.closed.Load() {
		return false, ErrStoreClosed
	}

	n, err := s.client.Exists(ctx, s.prefixKey(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ScanKeys implements KV. Keys are returned without the store prefix.
func (s *RedisKV) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}

	var keys []string
	var cursor uint64
	fullPattern := s.prefix + pattern

	for {
		batch, nextCursor, err := s.client.Scan(ctx, cursor, fullPattern, 100).Result()
		if err != nil {
			return nil, err
		}
		for _, k := range batch {
			keys = append(keys, s.stripPrefix(k))
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

// Incr implements KV.
func (s *RedisKV) Incr(ctx context.Context, key string) (int64, error) {
	if s.closed.Load() {
		return 0, ErrStoreClosed
	}
	return s.client.Incr(ctx, s.prefixKey(key)).Result()
}

// Del implements KV.
func (s *RedisKV) Del(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	return s.client.Del(ctx, s.prefixKey(key)).Err()
}

// Ping implements KV.
func (s *RedisKV) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	return s.client.Ping(ctx).Err()
}

// Close implements KV.
func (s *RedisKV) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		return s.client.Close()
	}
	return nil
}

// Client returns the underlying Redis client so the session store can
// share the connection pool. Use with caution.
func (s *RedisKV) Client() *redis.Client {
	return s.client
}

// Ensure RedisKV implements KV.
var _ KV = (*RedisKV)(nil)
