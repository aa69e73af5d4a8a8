// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides the key-value persistence layer backed by Redis.
// All durable state (users, posts, comments, counters) lives behind the
// KV interface; components receive it as an injected dependency and never
// share a connection handle implicitly.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrKeyMiss is returned when a key or hash field does not exist.
var ErrKeyMiss = errors.New("store: key not found")

// ErrStoreClosed is returned when operating on a closed store.
var ErrStoreClosed = errors.New("store: closed")

// KV is the key-value store contract consumed by the credential and
// content stores. Incr is the only operation with a cross-caller
// atomicity guarantee; everything else is a plain read or write.
type KV interface {
	// Get returns the string value at key, or ErrKeyMiss.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a string value. A zero ttl means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// HGet returns a single hash field, or ErrKeyMiss if the key or
	// field is absent.
	HGet(ctx context.Context, key, field string) (string, error)

	// HSet writes the given hash fields, creating the key if needed.
	HSet(ctx context.Context, key string, fields map[string]string) error

	// HGetAll returns all fields of a hash. A missing key yields an
	// empty map, mirroring Redis semantics.
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// Exists reports whether the key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// ScanKeys returns all keys matching the glob pattern. Uses SCAN,
	// never KEYS, so it is safe against large keyspaces.
	ScanKeys(ctx context.Context, pattern string) ([]string, error)

	// Incr atomically increments the counter at key and returns the
	// new value. No two concurrent callers observe the same value.
	Incr(ctx context.Context, key string) (int64, error)

	// Del removes a key. Deleting a missing key is not an error.
	Del(ctx context.Context, key string) error

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
