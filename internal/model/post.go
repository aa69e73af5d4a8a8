// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Post represents a blog post. Comments are derived at read time by
// enumerating comment keys for the post ID; they are never stored inline.
type Post struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Author  string    `json:"author"`
	Created time.Time `json:"created"`

	Comments []Comment `json:"comments,omitempty"`
}

// Comment represents a comment on a post. Comment IDs are globally unique
// across all posts. PostID may reference a post that has since been deleted.
type Comment struct {
	ID      int64     `json:"id"`
	PostID  int64     `json:"post_id"`
	Content string    `json:"content"`
	Author  string    `json:"author"`
	Created time.Time `json:"created"`
}
