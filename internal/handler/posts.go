// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog-go/internal/auth"
	"github.com/olegiv/oblog-go/internal/content"
	"github.com/olegiv/oblog-go/internal/middleware"
	"github.com/olegiv/oblog-go/internal/model"
	"github.com/olegiv/oblog-go/internal/render"
	"github.com/olegiv/oblog-go/internal/service"
	"github.com/olegiv/oblog-go/internal/session"
	"github.com/olegiv/oblog-go/internal/store"
)

// PostHandler handles the main view and post/comment mutations. Every
// mutating route passes session, CSRF (create and comment only) and
// authorization checks before reaching the content store.
type PostHandler struct {
	content        *content.Store
	users          *store.UserStore
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	events         *service.EventService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(cs *content.Store, users *store.UserStore, renderer *render.Renderer, sm *scs.SessionManager, events *service.EventService) *PostHandler {
	return &PostHandler{
		content:        cs,
		users:          users,
		renderer:       renderer,
		sessionManager: sm,
		events:         events,
	}
}

// Main renders the blog view with all posts, newest first. Read-only:
// no CSRF or authorization checks, only a valid session.
// GET /main
func (h *PostHandler) Main(w http.ResponseWriter, r *http.Request) {
	posts, err := h.content.ListPosts(r.Context())
	if err != nil {
		logAndInternalError(w, "listing posts failed", "error", err)
		return
	}

	data := render.MainData{
		Username:  middleware.GetUsername(r),
		Posts:     posts,
		CSRFToken: session.CSRFToken(r.Context(), h.sessionManager),
	}

	if err := h.renderer.Render(w, "main.html", data); err != nil {
		logAndInternalError(w, "rendering main view failed", "error", err)
	}
}

// CreatePost stores a new post authored by the session identity.
// POST /main/create
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r)

	title := r.PostFormValue("title")
	body := r.PostFormValue("content")

	post, err := h.content.CreatePost(r.Context(), username, title, body)
	if err != nil {
		if errors.Is(err, content.ErrInvalidInput) {
			http.Error(w, "Title and content are required", http.StatusBadRequest)
			return
		}
		logAndInternalError(w, "creating post failed", "error", err, "username", username)
		return
	}

	slog.Info("post created", "post_id", post.ID, "username", username)
	_ = h.events.LogContentEvent(r.Context(), model.EventLevelInfo, "Post created", username, clientIP(r), map[string]any{"post_id": post.ID})

	http.Redirect(w, r, RouteMain, http.StatusSeeOther)
}

// CreateComment stores a new comment on a post.
// POST /main/comment/{postID}
func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r)

	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil || postID <= 0 {
		http.Error(w, "Bad request.", http.StatusBadRequest)
		return
	}

	comment, err := h.content.CreateComment(r.Context(), postID, username, r.PostFormValue("content"))
	if err != nil {
		if errors.Is(err, content.ErrInvalidInput) {
			http.Error(w, "Bad request.", http.StatusBadRequest)
			return
		}
		logAndInternalError(w, "creating comment failed", "error", err, "username", username, "post_id", postID)
		return
	}

	slog.Info("comment created", "comment_id", comment.ID, "post_id", postID, "username", username)

	http.Redirect(w, r, RouteMain, http.StatusSeeOther)
}

// DeletePost removes a post if the acting identity owns it or is an
// admin. Role and ownership lookups both fail toward denial.
// POST /main/delete/{postID}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r)

	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil || postID <= 0 {
		http.Error(w, "Bad request.", http.StatusBadRequest)
		return
	}

	owner, err := h.content.GetPostOwner(r.Context(), postID)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		logAndInternalError(w, "resolving post owner failed", "error", err, "post_id", postID)
		return
	}

	role, err := h.users.GetRole(r.Context(), username)
	if err != nil {
		logAndInternalError(w, "resolving role failed", "error", err, "username", username)
		return
	}

	if !auth.CanDelete(username, role, owner) {
		slog.Warn("post deletion denied",
			"post_id", postID,
			"username", username,
			"owner", owner,
			"role", role,
		)
		_ = h.events.LogContentEvent(r.Context(), model.EventLevelWarning, "Post deletion denied", username, clientIP(r), map[string]any{"post_id": postID})
		http.Error(w,
			"Forbidden: You are not the owner of this blog post and therefore cannot delete the post",
			http.StatusForbidden)
		return
	}

	if err := h.content.DeletePost(r.Context(), postID); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		logAndInternalError(w, "deleting post failed", "error", err, "post_id", postID)
		return
	}

	slog.Info("post deleted", "post_id", postID, "username", username)
	_ = h.events.LogContentEvent(r.Context(), model.EventLevelInfo, "Post deleted", username, clientIP(r), map[string]any{"post_id": postID})

	http.Redirect(w, r, RouteMain, http.StatusSeeOther)
}
