// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content is the key-value-backed repository of posts and
// comments. IDs come from dedicated atomic counters; listings are
// re-evaluated fresh on every call, never cached in process.
package content

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/oblog-go/internal/model"
	"github.com/olegiv/oblog-go/internal/store"
)

// ErrInvalidInput is returned for empty or whitespace-only payloads.
var ErrInvalidInput = errors.New("content: invalid input")

// ErrNotFound is returned when a post does not exist.
var ErrNotFound = errors.New("content: not found")

// Counter keys, preserved from the original key scheme.
const (
	counterNextPostID    = "nextPostId"
	counterNextCommentID = "nextCommentId"
)

// Hash fields shared by posts and comments.
const (
	fieldID      = "id"
	fieldPostID  = "post_id"
	fieldTitle   = "title"
	fieldContent = "content"
	fieldAuthor  = "author"
	fieldCreated = "created"
)

// Store owns post and comment records. It holds no in-process state
// beyond its dependencies; every read goes back to the key-value store.
type Store struct {
	kv        store.KV
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// NewStore creates a content store on top of the given key-value store.
func NewStore(kv store.KV) *Store {
	return &Store{
		kv:        kv,
		sanitizer: NewSanitizer(),
		now:       time.Now,
	}
}

// postKey builds the storage key for a post ID.
func postKey(id int64) string {
	return fmt.Sprintf("blogpost:%d", id)
}

// commentKey builds the storage key for a comment. Comments are keyed by
// (postID, commentID) so a post's comments are enumerable by prefix.
func commentKey(postID, commentID int64) string {
	return fmt.Sprintf("comment:%d:%d", postID, commentID)
}

// NextPostID atomically allocates the next post ID.
func (s *Store) NextPostID(ctx context.Context) (int64, error) {
	return s.kv.Incr(ctx, counterNextPostID)
}

// NextCommentID atomically allocates the next comment ID, globally
// unique across all posts.
func (s *Store) NextCommentID(ctx context.Context) (int64, error) {
	return s.kv.Incr(ctx, counterNextCommentID)
}

// CreatePost sanitizes the content, allocates an ID and stores the post.
// Fails with ErrInvalidInput if title or content is empty.
func (s *Store) CreatePost(ctx context.Context, author, title, content string) (*model.Post, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}

	id, err := s.NextPostID(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocating post id: %w", err)
	}

	post := &model.Post{
		ID:      id,
		Title:   s.sanitizer.Sanitize(title),
		Content: s.sanitizer.Sanitize(content),
		Author:  author,
		Created: s.now().UTC(),
	}

	if err := s.kv.HSet(ctx, postKey(id), map[string]string{
		fieldID:      strconv.FormatInt(id, 10),
		fieldTitle:   post.Title,
		fieldContent: post.Content,
		fieldAuthor:  post.Author,
		fieldCreated: post.Created.Format(time.RFC3339),
	}); err != nil {
		return nil, fmt.Errorf("storing post: %w", err)
	}

	return post, nil
}

// CreateComment sanitizes and stores a comment keyed by (postID,
// commentID). Fails with ErrInvalidInput if the content is empty or
// whitespace-only. The post itself is not checked: a comment may
// outlive, or race, its post.
func (s *Store) CreateComment(ctx context.Context, postID int64, author, content string) (*model.Comment, error) {
	if postID <= 0 || strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}

	id, err := s.NextCommentID(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocating comment id: %w", err)
	}

	comment := &model.Comment{
		ID:      id,
		PostID:  postID,
		Content: s.sanitizer.Sanitize(content),
		Author:  author,
		Created: s.now().UTC(),
	}

	if err := s.kv.HSet(ctx, commentKey(postID, id), map[string]string{
		fieldID:      strconv.FormatInt(id, 10),
		fieldPostID:  strconv.FormatInt(postID, 10),
		fieldContent: comment.Content,
		fieldAuthor:  comment.Author,
		fieldCreated: comment.Created.Format(time.RFC3339),
	}); err != nil {
		return nil, fmt.Errorf("storing comment: %w", err)
	}

	return comment, nil
}

// ListPosts enumerates all posts with their comments attached, newest
// first. The result is rebuilt from the store on every call.
func (s *Store) ListPosts(ctx context.Context) ([]model.Post, error) {
	keys, err := s.kv.ScanKeys(ctx, "blogpost:*")
	if err != nil {
		return nil, fmt.Errorf("scanning posts: %w", err)
	}

	posts := make([]model.Post, 0, len(keys))
	for _, key := range keys {
		fields, err := s.kv.HGetAll(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", key, err)
		}
		if len(fields) == 0 {
			// Deleted between scan and read.
			continue
		}

		post, err := postFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}

		post.Comments, err = s.ListComments(ctx, post.ID)
		if err != nil {
			return nil, err
		}

		posts = append(posts, post)
	}

	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts, nil
}

// ListComments enumerates a post's comments, newest first.
func (s *Store) ListComments(ctx context.Context, postID int64) ([]model.Comment, error) {
	keys, err := s.kv.ScanKeys(ctx, fmt.Sprintf("comment:%d:*", postID))
	if err != nil {
		return nil, fmt.Errorf("scanning comments: %w", err)
	}

	comments := make([]model.Comment, 0, len(keys))
	for _, key := range keys {
		fields, err := s.kv.HGetAll(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", key, err)
		}
		if len(fields) == 0 {
			continue
		}

		comment, err := commentFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
		comments = append(comments, comment)
	}

	sort.Slice(comments, func(i, j int) bool { return comments[i].ID > comments[j].ID })
	return comments, nil
}

// GetPostOwner returns the author of a post, or ErrNotFound.
func (s *Store) GetPostOwner(ctx context.Context, postID int64) (string, error) {
	author, err := s.kv.HGet(ctx, postKey(postID), fieldAuthor)
	if err != nil {
		if errors.Is(err, store.ErrKeyMiss) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("loading post owner: %w", err)
	}
	return author, nil
}

// DeletePost removes the post record only. Comments keep their keys and
// stay enumerable directly, but vanish from ListPosts since traversal
// starts at post keys.
func (s *Store) DeletePost(ctx context.Context, postID int64) error {
	exists, err := s.kv.Exists(ctx, postKey(postID))
	if err != nil {
		return fmt.Errorf("checking post: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return s.kv.Del(ctx, postKey(postID))
}

// postFromFields decodes a post hash.
func postFromFields(fields map[string]string) (model.Post, error) {
	id, err := strconv.ParseInt(fields[fieldID], 10, 64)
	if err != nil {
		return model.Post{}, fmt.Errorf("parsing id: %w", err)
	}

	created, err := time.Parse(time.RFC3339, fields[fieldCreated])
	if err != nil {
		return model.Post{}, fmt.Errorf("parsing created: %w", err)
	}

	return model.Post{
		ID:      id,
		Title:   fields[fieldTitle],
		Content: fields[fieldContent],
		Author:  fields[fieldAuthor],
		Created: created,
	}, nil
}

// commentFromFields decodes a comment hash.
func commentFromFields(fields map[string]string) (model.Comment, error) {
	id, err := strconv.ParseInt(fields[fieldID], 10, 64)
	if err != nil {
		return model.Comment{}, fmt.Errorf("parsing id: %w", err)
	}

	postID, err := strconv.ParseInt(fields[fieldPostID], 10, 64)
	if err != nil {
		return model.Comment{}, fmt.Errorf("parsing post_id: %w", err)
	}

	created, err := time.Parse(time.RFC3339, fields[fieldCreated])
	if err != nil {
		return model.Comment{}, fmt.Errorf("parsing created: %w", err)
	}

	return model.Comment{
		ID:      id,
		PostID:  postID,
		Content: fields[fieldContent],
		Author:  fields[fieldAuthor],
		Created: created,
	}, nil
}
