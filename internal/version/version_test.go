// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package version

import "testing"

func TestNewDefaults(t *testing.T) {
	info := New("", "", "")
	if info.Version != "dev" || info.GitCommit != "unknown" || info.BuildTime != "unknown" {
		t.Errorf("New(empty) = %+v", info)
	}
}

func TestString(t *testing.T) {
	info := New("v1.2.3", "abc1234", "2026-01-01T00:00:00Z")
	want := "v1.2.3 (commit: abc1234, built: 2026-01-01T00:00:00Z)"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
