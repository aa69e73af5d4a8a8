// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application: User, Post, Comment and audit event structures.
package model

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents a blog user keyed by username. Accounts created through
// federated login carry no password hash.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Never expose in JSON
	Role         string `json:"role"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
