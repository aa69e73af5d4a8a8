// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeProvider stands in for the GitHub OAuth endpoints.
func fakeProvider(t *testing.T, tokenStatus int, tokenBody map[string]string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("token exchange method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing token form: %v", err)
		}
		if r.PostFormValue("client_id") != "test-client" {
			t.Errorf("client_id = %q", r.PostFormValue("client_id"))
		}
		if r.PostFormValue("client_secret") != "test-secret" {
			t.Errorf("client_secret = %q", r.PostFormValue("client_secret"))
		}
		if r.PostFormValue("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(tokenStatus)
		_ = json.NewEncoder(w).Encode(tokenBody)
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"login": "octocat", "id": 583231})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Config{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		AuthorizeURL: srv.URL + "/login/oauth/authorize",
		TokenURL:     srv.URL + "/login/oauth/access_token",
		UserURL:      srv.URL + "/user",
	})
}

func TestAuthorizeRedirectURL(t *testing.T) {
	c := NewClient(Config{ClientID: "abc 123"})

	got := c.AuthorizeRedirectURL()
	if !strings.HasPrefix(got, DefaultAuthorizeURL+"?client_id=") {
		t.Errorf("AuthorizeRedirectURL() = %q", got)
	}
	if !strings.Contains(got, "abc+123") && !strings.Contains(got, "abc%20123") {
		t.Errorf("client_id not query-escaped: %q", got)
	}
}

func TestExchangeAndFetchIdentity(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, map[string]string{
		"access_token": "tok-123",
		"token_type":   "bearer",
	})
	c := newTestClient(srv)
	ctx := context.Background()

	token, err := c.Exchange(ctx, "good-code")
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if token != "tok-123" {
		t.Errorf("Exchange() = %q, want %q", token, "tok-123")
	}

	login, err := c.FetchIdentity(ctx, token)
	if err != nil {
		t.Fatalf("FetchIdentity() error = %v", err)
	}
	if login != "octocat" {
		t.Errorf("FetchIdentity() = %q, want %q", login, "octocat")
	}
}

func TestExchangeRejectedCode(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, map[string]string{"access_token": "tok-123"})
	c := newTestClient(srv)

	_, err := c.Exchange(context.Background(), "bad-code")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("Exchange(bad code) error = %v, want ErrUpstream", err)
	}
}

func TestExchangeNoToken(t *testing.T) {
	// GitHub answers 200 with an error payload for a used or expired code.
	srv := fakeProvider(t, http.StatusOK, map[string]string{
		"error": "bad_verification_code",
	})
	c := newTestClient(srv)

	_, err := c.Exchange(context.Background(), "good-code")
	if !errors.Is(err, ErrNoAccessToken) {
		t.Errorf("Exchange() error = %v, want ErrNoAccessToken", err)
	}
}

func TestExchangeProviderDown(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, nil)
	c := newTestClient(srv)
	srv.Close()

	_, err := c.Exchange(context.Background(), "good-code")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("Exchange() error = %v, want ErrUpstream", err)
	}
}

func TestFetchIdentityBadToken(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, nil)
	c := newTestClient(srv)

	_, err := c.FetchIdentity(context.Background(), "wrong-token")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("FetchIdentity() error = %v, want ErrUpstream", err)
	}
}
