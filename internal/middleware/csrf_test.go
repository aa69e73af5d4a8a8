// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog-go/internal/session"
)

// csrfTestServer wires a login route that binds an identity and a
// protected route guarded by VerifyCSRF, both under LoadAndSave.
func csrfTestServer(t *testing.T) (*httptest.Server, *scs.SessionManager) {
	t.Helper()

	sm := scs.New()

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if err := session.Login(r.Context(), sm, "alice"); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(session.CSRFToken(r.Context(), sm)))
	})
	mux.Handle("/protected", VerifyCSRF(sm)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})))

	srv := httptest.NewServer(sm.LoadAndSave(mux))
	t.Cleanup(srv.Close)
	return srv, sm
}

// loginForToken performs the login request and returns the session
// cookie plus the CSRF token bound to it.
func loginForToken(t *testing.T, srv *httptest.Server) (*http.Cookie, string) {
	t.Helper()

	resp, err := http.Get(srv.URL + "/login")
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading login response: %v", err)
	}

	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			return c, string(body)
		}
	}
	t.Fatal("no session cookie returned by login")
	return nil, ""
}

func postForm(t *testing.T, srv *httptest.Server, cookie *http.Cookie, form url.Values) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/protected", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestVerifyCSRFValidToken(t *testing.T) {
	srv, _ := csrfTestServer(t)
	cookie, token := loginForToken(t, srv)

	resp := postForm(t, srv, cookie, url.Values{CSRFFormField: {token}})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestVerifyCSRFMissingToken(t *testing.T) {
	srv, _ := csrfTestServer(t)
	cookie, _ := loginForToken(t, srv)

	resp := postForm(t, srv, cookie, url.Values{})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
}

func TestVerifyCSRFWrongToken(t *testing.T) {
	srv, _ := csrfTestServer(t)
	cookie, token := loginForToken(t, srv)

	resp := postForm(t, srv, cookie, url.Values{CSRFFormField: {token + "x"}})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}

	// Case differences must not match either.
	resp = postForm(t, srv, cookie, url.Values{CSRFFormField: {strings.ToUpper(token)}})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status for case-flipped token = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
}

func TestVerifyCSRFAnonymousSession(t *testing.T) {
	srv, _ := csrfTestServer(t)

	// No login: even an empty-vs-empty token pair is rejected.
	resp := postForm(t, srv, nil, url.Values{CSRFFormField: {""}})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
}

func TestVerifyCSRFForeignSessionToken(t *testing.T) {
	srv, _ := csrfTestServer(t)

	_, aliceToken := loginForToken(t, srv)
	bobCookie, _ := loginForToken(t, srv)

	// A token stolen from another session must not authorize this one.
	resp := postForm(t, srv, bobCookie, url.Values{CSRFFormField: {aliceToken}})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
}
