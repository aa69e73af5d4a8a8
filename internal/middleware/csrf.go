// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog-go/internal/session"
)

// CSRFFormField is the form field carrying the anti-forgery token.
const CSRFFormField = "_csrf"

// VerifyCSRF creates middleware that compares the submitted token with
// the session's token before any mutating work runs. The match is exact
// and constant-time; a mismatch ends the request with 403 so no partial
// mutation can occur downstream. Only state-mutating form endpoints are
// wrapped with this.
func VerifyCSRF(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form data", http.StatusBadRequest)
				return
			}

			want := session.CSRFToken(r.Context(), sm)
			got := r.PostFormValue(CSRFFormField)

			if !session.IsLoggedIn(r.Context(), sm) || !tokensEqual(want, got) {
				slog.Warn("csrf validation failed",
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, "Invalid CSRF-token", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// tokensEqual compares tokens in constant time. Empty tokens never match.
func tokensEqual(want, got string) bool {
	if want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
