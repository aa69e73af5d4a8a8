// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog-go/internal/model"
	"github.com/olegiv/oblog-go/internal/oauth"
	"github.com/olegiv/oblog-go/internal/service"
	"github.com/olegiv/oblog-go/internal/session"
	"github.com/olegiv/oblog-go/internal/store"
)

// OAuthHandler handles the federated login flow.
type OAuthHandler struct {
	client         *oauth.Client
	users          *store.UserStore
	sessionManager *scs.SessionManager
	events         *service.EventService
}

// NewOAuthHandler creates a new OAuthHandler.
func NewOAuthHandler(client *oauth.Client, users *store.UserStore, sm *scs.SessionManager, events *service.EventService) *OAuthHandler {
	return &OAuthHandler{
		client:         client,
		users:          users,
		sessionManager: sm,
		events:         events,
	}
}

// GitHubRedirect starts the flow by redirecting to the provider's
// authorize endpoint. Stateless: nothing is written locally here.
// GET /auth/github
func (h *OAuthHandler) GitHubRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.client.AuthorizeRedirectURL(), http.StatusFound)
}

// GitHubCallback exchanges the authorization code, fetches the identity
// and establishes a session exactly as password login does.
// GET /auth/github/callback
func (h *OAuthHandler) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	accessToken, err := h.client.Exchange(r.Context(), code)
	if err != nil {
		logAndInternalError(w, "oauth token exchange failed", "error", err)
		return
	}

	username, err := h.client.FetchIdentity(r.Context(), accessToken)
	if err != nil {
		logAndInternalError(w, "oauth identity fetch failed", "error", err)
		return
	}

	// First sight of a federated identity creates the user with the
	// default role; no password is ever collected for it.
	if err := h.users.EnsureRoleDefault(r.Context(), username); err != nil {
		logAndInternalError(w, "ensuring federated user role", "error", err, "username", username)
		return
	}

	if err := session.Login(r.Context(), h.sessionManager, username); err != nil {
		logAndInternalError(w, "session login failed", "error", err)
		return
	}

	slog.Info("user logged in via federated login", "username", username)
	_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged in via GitHub", username, clientIP(r), nil)

	http.Redirect(w, r, RouteMain, http.StatusFound)
}
