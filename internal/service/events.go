// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic on top of the stores,
// currently event logging for audit trails.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/olegiv/oblog-go/internal/model"
)

// eventsKey is the Redis list holding audit events, newest first.
const eventsKey = "oblog:events"

// DefaultEventRetention is how many audit events the trim job keeps.
const DefaultEventRetention = 10000

// EventService appends audit events to a Redis list. It shares the
// application's connection pool but owns its key exclusively.
type EventService struct {
	client *redis.Client
}

// NewEventService creates a new EventService.
func NewEventService(client *redis.Client) *EventService {
	return &EventService{client: client}
}

// LogEvent appends an audit event. Failures are logged, never fatal to
// the enclosing request.
func (s *EventService) LogEvent(ctx context.Context, level, category, message, username, ipAddress string, metadata map[string]any) error {
	event := model.Event{
		ID:        uuid.NewString(),
		Level:     level,
		Category:  category,
		Message:   message,
		Username:  username,
		IPAddress: ipAddress,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	if err := s.client.LPush(ctx, eventsKey, payload).Err(); err != nil {
		slog.Error("failed to log event", "error", err, "message", message)
		return err
	}

	return nil
}

// LogAuthEvent logs an authentication-related event.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message, username, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryAuth, message, username, ipAddress, metadata)
}

// LogContentEvent logs a post- or comment-related event.
func (s *EventService) LogContentEvent(ctx context.Context, level, message, username, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryContent, message, username, ipAddress, metadata)
}

// Recent returns up to limit most recent events, newest first.
func (s *EventService) Recent(ctx context.Context, limit int64) ([]model.Event, error) {
	if limit <= 0 {
		limit = 100
	}

	raw, err := s.client.LRange(ctx, eventsKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}

	events := make([]model.Event, 0, len(raw))
	for _, item := range raw {
		var event model.Event
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			// Skip corrupt entries rather than failing the whole read.
			slog.Warn("skipping corrupt event entry", "error", err)
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

// Trim drops events beyond the retention limit. Run periodically by the
// scheduler.
func (s *EventService) Trim(ctx context.Context, keep int64) error {
	if keep <= 0 {
		keep = DefaultEventRetention
	}
	return s.client.LTrim(ctx, eventsKey, 0, keep-1).Err()
}
