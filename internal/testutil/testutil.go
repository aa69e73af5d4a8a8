// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the oBlog project.
package testutil

import (
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/olegiv/oblog-go/internal/store"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestRedis starts an in-process Redis (miniredis) and returns a KV
// store on top of it, the raw client, and a cleanup function.
func TestRedis(t *testing.T) (*store.RedisKV, *redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	kv := store.NewRedisKVFromClient(client, "oblog:")

	return kv, client, func() {
		_ = client.Close()
		mr.Close()
	}
}

// TestMiniredis starts an in-process Redis and returns it with a client,
// for tests that need to manipulate time (TTL fast-forward).
func TestMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return mr, client, func() {
		_ = client.Close()
		mr.Close()
	}
}
