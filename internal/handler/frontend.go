// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog-go/internal/render"
	"github.com/olegiv/oblog-go/internal/session"
)

// FrontendHandler serves the public landing page.
type FrontendHandler struct {
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	githubEnabled  bool
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(renderer *render.Renderer, sm *scs.SessionManager, githubEnabled bool) *FrontendHandler {
	return &FrontendHandler{
		renderer:       renderer,
		sessionManager: sm,
		githubEnabled:  githubEnabled,
	}
}

// Index renders the login/registration page. Already-authenticated
// visitors go straight to the main view.
// GET /
func (h *FrontendHandler) Index(w http.ResponseWriter, r *http.Request) {
	if session.IsLoggedIn(r.Context(), h.sessionManager) {
		http.Redirect(w, r, RouteMain, http.StatusSeeOther)
		return
	}

	data := render.IndexData{GitHubEnabled: h.githubEnabled}
	if err := h.renderer.Render(w, "index.html", data); err != nil {
		logAndInternalError(w, "rendering index failed", "error", err)
	}
}
