// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/oblog-go/internal/model"
	"github.com/olegiv/oblog-go/web"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(web.Templates)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestRenderMain(t *testing.T) {
	r := newTestRenderer(t)

	created := time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	data := MainData{
		Username:  "alice",
		CSRFToken: "deadbeef",
		Posts: []model.Post{
			{
				ID:      1,
				Title:   "Hello",
				Content: "Stored <b>bold</b> text",
				Author:  "alice",
				Created: created,
				Comments: []model.Comment{
					{ID: 1, PostID: 1, Content: "a comment", Author: "bob", Created: created},
				},
			},
		},
	}

	rec := httptest.NewRecorder()
	if err := r.Render(rec, "main.html", data); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := rec.Body.String()
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(body, "alice") {
		t.Error("username missing")
	}
	if !strings.Contains(body, `name="_csrf" value="deadbeef"`) {
		t.Error("CSRF token missing from forms")
	}
	// Sanitized markup renders as markup, not escaped text.
	if !strings.Contains(body, "Stored <b>bold</b> text") {
		t.Error("stored formatting was escaped")
	}
	if !strings.Contains(body, "2026-03-14 09:26") {
		t.Error("date not formatted")
	}
	if !strings.Contains(body, "a comment") {
		t.Error("comment missing")
	}
	if !strings.Contains(body, "/main/delete/1") || !strings.Contains(body, "/main/comment/1") {
		t.Error("per-post action forms missing")
	}
}

func TestRenderMainEmpty(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	if err := r.Render(rec, "main.html", MainData{Username: "alice"}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(rec.Body.String(), "No posts yet.") {
		t.Error("empty state missing")
	}
}

func TestRenderIndex(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	if err := r.Render(rec, "index.html", IndexData{GitHubEnabled: true}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Log in with GitHub") {
		t.Error("GitHub link missing when enabled")
	}

	rec = httptest.NewRecorder()
	if err := r.Render(rec, "index.html", IndexData{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(rec.Body.String(), "Log in with GitHub") {
		t.Error("GitHub link shown when disabled")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	if err := r.Render(rec, "missing.html", nil); err == nil {
		t.Error("Render() succeeded for unknown template")
	}
	if rec.Body.Len() != 0 {
		t.Error("body written despite render failure")
	}
}
