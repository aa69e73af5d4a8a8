// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the server-side session store and owns the
// login-state transitions. A session record binds the signed cookie to a
// username and a per-session CSRF token.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/redis/go-redis/v9"
)

// Session keys.
const (
	KeyUsername  = "username"
	KeyCSRFToken = "csrf_token"
)

// IdleTimeout is the sliding expiry: every request that touches the
// session pushes the deadline out by this much.
const IdleTimeout = 30 * time.Minute

// csrfTokenBytes is the entropy of the per-session CSRF token (256 bits).
const csrfTokenBytes = 32

// New creates a session manager backed by Redis, matching the original
// deployment: 30-minute sliding TTL, httpOnly, SameSite=Strict cookie.
func New(client *redis.Client, isDev bool) *scs.SessionManager {
	sm := scs.New()

	sm.Store = goredisstore.NewWithPrefix(client, "oblog:session:")

	sm.IdleTimeout = IdleTimeout
	sm.Lifetime = 12 * time.Hour
	sm.Cookie.Name = "oblog_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}

// NewCSRFToken returns a fresh random token, hex encoded.
func NewCSRFToken() (string, error) {
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating csrf token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Login performs the Anonymous to Authenticated transition: the session
// ID is regenerated against fixation, the identity is bound and a fresh
// CSRF token is assigned. The token rotates only here, never on later
// requests.
func Login(ctx context.Context, sm *scs.SessionManager, username string) error {
	if err := sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}

	token, err := NewCSRFToken()
	if err != nil {
		return err
	}

	sm.Put(ctx, KeyUsername, username)
	sm.Put(ctx, KeyCSRFToken, token)
	return nil
}

// Logout destroys the session record.
func Logout(ctx context.Context, sm *scs.SessionManager) error {
	return sm.Destroy(ctx)
}

// Username returns the identity bound to the session, or "" when
// anonymous. An expired session is indistinguishable from no session.
func Username(ctx context.Context, sm *scs.SessionManager) string {
	return sm.GetString(ctx, KeyUsername)
}

// CSRFToken returns the session's anti-forgery token, or "".
func CSRFToken(ctx context.Context, sm *scs.SessionManager) string {
	return sm.GetString(ctx, KeyCSRFToken)
}

// IsLoggedIn reports whether the session is authenticated. The invariant
// holds that a logged-in session always carries a non-empty username and
// CSRF token, both assigned together by Login.
func IsLoggedIn(ctx context.Context, sm *scs.SessionManager) bool {
	return Username(ctx, sm) != ""
}
