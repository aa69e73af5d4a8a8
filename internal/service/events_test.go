// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/olegiv/oblog-go/internal/model"
	"github.com/olegiv/oblog-go/internal/testutil"
)

func newTestEvents(t *testing.T) *EventService {
	t.Helper()
	_, client, cleanup := testutil.TestRedis(t)
	t.Cleanup(cleanup)
	return NewEventService(client)
}

func TestLogEventAndRecent(t *testing.T) {
	events := newTestEvents(t)
	ctx := context.Background()

	err := events.LogAuthEvent(ctx, model.EventLevelInfo, "user logged in", "alice", "10.0.0.1",
		map[string]any{"method": "password"})
	if err != nil {
		t.Fatalf("LogAuthEvent() error = %v", err)
	}
	err = events.LogContentEvent(ctx, model.EventLevelWarning, "post deleted", "root", "10.0.0.2", nil)
	if err != nil {
		t.Fatalf("LogContentEvent() error = %v", err)
	}

	got, err := events.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent() returned %d events, want 2", len(got))
	}

	// Newest first
	if got[0].Message != "post deleted" {
		t.Errorf("newest event = %q, want %q", got[0].Message, "post deleted")
	}
	if got[0].Category != model.EventCategoryContent || got[0].Level != model.EventLevelWarning {
		t.Errorf("event fields = %+v", got[0])
	}
	if got[1].Username != "alice" || got[1].IPAddress != "10.0.0.1" {
		t.Errorf("event fields = %+v", got[1])
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Errorf("event IDs not unique: %q, %q", got[0].ID, got[1].ID)
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
}

func TestRecentLimit(t *testing.T) {
	events := newTestEvents(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := events.LogEvent(ctx, model.EventLevelInfo, model.EventCategorySystem,
			fmt.Sprintf("event %d", i), "", "", nil); err != nil {
			t.Fatalf("LogEvent() error = %v", err)
		}
	}

	got, err := events.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Recent(3) returned %d events", len(got))
	}
	if got[0].Message != "event 4" {
		t.Errorf("newest = %q, want %q", got[0].Message, "event 4")
	}
}

func TestTrim(t *testing.T) {
	events := newTestEvents(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := events.LogEvent(ctx, model.EventLevelInfo, model.EventCategorySystem,
			fmt.Sprintf("event %d", i), "", "", nil); err != nil {
			t.Fatalf("LogEvent() error = %v", err)
		}
	}

	if err := events.Trim(ctx, 4); err != nil {
		t.Fatalf("Trim() error = %v", err)
	}

	got, err := events.Recent(ctx, 100)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d events after trim, want 4", len(got))
	}
	// The newest events survive the trim.
	if got[0].Message != "event 9" || got[3].Message != "event 6" {
		t.Errorf("trim kept wrong window: %q .. %q", got[0].Message, got[3].Message)
	}
}
