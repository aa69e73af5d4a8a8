// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteRegister is the registration route.
	RouteRegister = "/register"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteMain is the authenticated blog view.
	RouteMain = "/main"
	// RouteMainCreate is the post creation route.
	RouteMainCreate = "/main/create"
	// RouteMainComment is the comment creation route pattern.
	RouteMainComment = "/main/comment/{postID}"
	// RouteMainDelete is the post deletion route pattern.
	RouteMainDelete = "/main/delete/{postID}"
	// RouteAuthGitHub is the federated login redirect route.
	RouteAuthGitHub = "/auth/github"
	// RouteAuthGitHubCallback is the federated login callback route.
	RouteAuthGitHubCallback = "/auth/github/callback"
)
