// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render is the server-side view collaborator: it parses the
// embedded templates once and renders them with the data the handlers
// hand over ({Username, Posts, CSRFToken} for the main view).
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/olegiv/oblog-go/internal/model"
)

// MainData is the payload for the main blog view.
type MainData struct {
	Username  string
	Posts     []model.Post
	CSRFToken string
}

// IndexData is the payload for the landing page with its login and
// registration forms.
type IndexData struct {
	GitHubEnabled bool
}

// Renderer renders the embedded HTML templates.
type Renderer struct {
	templates map[string]*template.Template
}

// New parses all page templates from the filesystem.
func New(templatesFS fs.FS) (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}

	pages, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("globbing templates: %w", err)
	}

	for _, page := range pages {
		name := path.Base(page)
		tmpl, err := template.New(name).Funcs(funcMap()).ParseFS(templatesFS, page)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", page, err)
		}
		r.templates[name] = tmpl
	}

	return r, nil
}

// funcMap returns the template helpers. safeHTML is only ever fed
// content that already passed the storage sanitizer.
func funcMap() template.FuncMap {
	return template.FuncMap{
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
		"dateFormat": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
	}
}

// Render executes a template to a buffer first so a failing template
// never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, name string, data any) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}
