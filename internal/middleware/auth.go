// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// CSRF verification and request context handling.
package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog-go/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeyUsername    ContextKey = "username"
	ContextKeyRequestPath ContextKey = "request_path"
)

// RequireLogin creates middleware that rejects anonymous requests with
// 403 Forbidden. An expired session is absent from the store and is
// treated identically to no session at all.
func RequireLogin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := session.Username(r.Context(), sm)
			if username == "" {
				http.Error(w, "Forbidden: You are not authorized.", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUsername, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUsername retrieves the authenticated username from the request
// context, or "" when the request is anonymous.
func GetUsername(r *http.Request) string {
	username, ok := r.Context().Value(ContextKeyUsername).(string)
	if !ok {
		return ""
	}
	return username
}

// RequestPath creates middleware that stores the request path in the
// context, used by the logging handler to include the URL in error logs.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
