// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler wires the HTTP surface to the session, credential and
// content stores.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog-go/internal/auth"
	"github.com/olegiv/oblog-go/internal/middleware"
	"github.com/olegiv/oblog-go/internal/model"
	"github.com/olegiv/oblog-go/internal/service"
	"github.com/olegiv/oblog-go/internal/session"
	"github.com/olegiv/oblog-go/internal/store"
)

// AuthHandler handles registration, password login and logout.
type AuthHandler struct {
	users           *store.UserStore
	sessionManager  *scs.SessionManager
	events          *service.EventService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *store.UserStore, sm *scs.SessionManager, events *service.EventService, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		users:           users,
		sessionManager:  sm,
		events:          events,
		loginProtection: lp,
	}
}

// Register handles the registration form submission.
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if username == "" || password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	if h.loginProtection != nil && !h.loginProtection.CheckIPRateLimit(clientIP(r)) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	if !auth.IsAcceptablePassword(password) {
		http.Error(w,
			"Password length must be at least 8 characters, contain one numeric character and one special character",
			http.StatusUnauthorized)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logAndInternalError(w, "password hashing failed", "error", err)
		return
	}

	if err := h.users.Register(r.Context(), username, hash); err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			http.Error(w, "Username Already Exists", http.StatusUnauthorized)
			return
		}
		logAndInternalError(w, "registration failed", "error", err, "username", username)
		return
	}

	slog.Info("user registered", "username", username)
	_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "User registered", username, clientIP(r), nil)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Registered Successfully"))
}

// Login handles the login form submission.
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if username == "" || password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	if h.loginProtection != nil {
		if !h.loginProtection.CheckIPRateLimit(clientIP(r)) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		if locked, _ := h.loginProtection.IsAccountLocked(username); locked {
			_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login attempt on locked account", username, clientIP(r), nil)
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
	}

	// The distinct unknown-username response is a deliberate carry-over
	// from the original service; it enables username enumeration.
	exists, err := h.users.Exists(r.Context(), username)
	if err != nil {
		logAndInternalError(w, "credential lookup failed", "error", err)
		return
	}
	if !exists {
		h.recordFailure(r, username, "Login failed: user not found")
		http.Error(w, "No Such Username Exists", http.StatusUnauthorized)
		return
	}

	valid, err := h.users.Verify(r.Context(), username, password)
	if err != nil {
		logAndInternalError(w, "credential verification failed", "error", err)
		return
	}
	if !valid {
		h.recordFailure(r, username, "Login failed: invalid password")
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(username)
	}

	h.rehashIfNeeded(r, username, password)

	if err := session.Login(r.Context(), h.sessionManager, username); err != nil {
		logAndInternalError(w, "session login failed", "error", err)
		return
	}

	slog.Info("user logged in", "username", username)
	_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged in", username, clientIP(r), nil)

	http.Redirect(w, r, RouteMain, http.StatusSeeOther)
}

// Logout destroys the session.
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	username := session.Username(r.Context(), h.sessionManager)

	if err := session.Logout(r.Context(), h.sessionManager); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	if username != "" {
		slog.Info("user logged out", "username", username)
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged out", username, clientIP(r), nil)
	}

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// recordFailure tracks a failed attempt for lockout purposes and writes
// the audit event.
func (h *AuthHandler) recordFailure(r *http.Request, username, message string) {
	_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning, message, username, clientIP(r), nil)
	if h.loginProtection != nil {
		h.loginProtection.RecordFailedAttempt(username)
	}
}

// rehashIfNeeded transparently upgrades the stored hash after a
// parameter change. Never blocks the login.
func (h *AuthHandler) rehashIfNeeded(r *http.Request, username, password string) {
	user, err := h.users.Get(r.Context(), username)
	if err != nil || user.PasswordHash == "" || !auth.NeedsRehash(user.PasswordHash) {
		return
	}

	newHash, err := auth.HashPassword(password)
	if err != nil {
		return
	}
	if err := h.users.UpdatePasswordHash(r.Context(), username, newHash); err != nil {
		slog.Error("failed to re-hash password", "error", err, "username", username)
		return
	}
	slog.Info("password re-hashed with updated parameters", "username", username)
}
