// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "testing"

func TestIsAcceptablePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"empty", "", false},
		{"too short", "abc", false},
		{"length only", "abcdefgh", false},
		{"length and digit, no symbol", "abcdefg1", false},
		{"length and symbol, no digit", "abcdefg!", false},
		{"all requirements", "abcdefg1!", true},
		{"digit and symbol but short", "a1!", false},
		{"symbol from middle of set", "pass;word7", true},
		{"unicode digit counts", "abcdefg١!", true},
		{"dash is not in symbol set", "abcdef-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAcceptablePassword(tt.password); got != tt.want {
				t.Errorf("IsAcceptablePassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}
