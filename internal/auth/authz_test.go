// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"testing"

	"github.com/olegiv/oblog-go/internal/model"
)

func TestCanDelete(t *testing.T) {
	tests := []struct {
		name     string
		username string
		role     string
		owner    string
		want     bool
	}{
		{"owner deletes own post", "alice", model.RoleUser, "alice", true},
		{"non-owner denied", "bob", model.RoleUser, "alice", false},
		{"admin deletes any post", "root", model.RoleAdmin, "alice", true},
		{"admin deletes own post", "root", model.RoleAdmin, "root", true},
		{"empty actor denied", "", model.RoleAdmin, "alice", false},
		{"empty owner denied", "alice", model.RoleUser, "", false},
		{"unknown role is not admin", "bob", "superuser", "alice", false},
		{"empty role owner still allowed", "alice", "", "alice", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanDelete(tt.username, tt.role, tt.owner); got != tt.want {
				t.Errorf("CanDelete(%q, %q, %q) = %v, want %v",
					tt.username, tt.role, tt.owner, got, tt.want)
			}
		})
	}
}
