// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package oauth implements the federated login flow against a GitHub-style
// identity provider: authorization-code exchange followed by an identity
// fetch. The redirect step is stateless; no provider-side state parameter
// is carried (a known weakness of the original flow, kept as specified).
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUpstream is returned when the provider is unreachable or answers
// with a non-success status.
var ErrUpstream = errors.New("oauth: upstream provider error")

// ErrNoAccessToken is returned when the token exchange response carries
// no usable token.
var ErrNoAccessToken = errors.New("oauth: no access token in response")

// Default GitHub endpoints.
const (
	DefaultAuthorizeURL = "https://github.com/login/oauth/authorize"
	DefaultTokenURL     = "https://github.com/login/oauth/access_token"
	DefaultUserURL      = "https://api.github.com/user"

	// exchangeTimeout bounds each upstream call.
	exchangeTimeout = 10 * time.Second
)

// Config holds the provider credentials and endpoints. Endpoints default
// to GitHub's; tests point them at a local server.
type Config struct {
	ClientID     string
	ClientSecret string
	AuthorizeURL string
	TokenURL     string
	UserURL      string
}

// Client performs the two-step federated login protocol.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a provider client. Empty endpoints fall back to the
// GitHub defaults.
func NewClient(cfg Config) *Client {
	if cfg.AuthorizeURL == "" {
		cfg.AuthorizeURL = DefaultAuthorizeURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.UserURL == "" {
		cfg.UserURL = DefaultUserURL
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: exchangeTimeout},
	}
}

// AuthorizeRedirectURL returns the provider's authorize endpoint with the
// client identifier attached. No local state is created for this step.
func (c *Client) AuthorizeRedirectURL() string {
	return fmt.Sprintf("%s?client_id=%s", c.cfg.AuthorizeURL, url.QueryEscape(c.cfg.ClientID))
}

// tokenResponse represents the provider's token exchange response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

// identityResponse represents the provider's user profile response.
type identityResponse struct {
	Login string `json:"login"`
}

// Exchange trades an authorization code for an access token via a
// server-to-server POST.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	data := url.Values{}
	data.Set("client_id", c.cfg.ClientID)
	data.Set("client_secret", c.cfg.ClientSecret)
	data.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token exchange: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint returned %d", ErrUpstream, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("%w: parsing token response: %v", ErrUpstream, err)
	}

	if token.AccessToken == "" {
		return "", ErrNoAccessToken
	}

	return token.AccessToken, nil
}

// FetchIdentity retrieves the remote identity's login name using the
// access token.
func (c *Client) FetchIdentity(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.UserURL, nil)
	if err != nil {
		return "", fmt.Errorf("building identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: identity fetch: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: identity endpoint returned %d", ErrUpstream, resp.StatusCode)
	}

	var identity identityResponse
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return "", fmt.Errorf("%w: parsing identity response: %v", ErrUpstream, err)
	}

	if identity.Login == "" {
		return "", fmt.Errorf("%w: identity response has no login", ErrUpstream)
	}

	return identity.Login, nil
}
