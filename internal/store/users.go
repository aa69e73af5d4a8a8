// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/olegiv/oblog-go/internal/auth"
	"github.com/olegiv/oblog-go/internal/model"
)

// ErrDuplicateUser is returned when registering an already-taken username.
var ErrDuplicateUser = errors.New("store: username already exists")

// ErrUserNotFound is returned when looking up an unknown username.
var ErrUserNotFound = errors.New("store: user not found")

// User hash fields.
const (
	userFieldPassword = "password"
	userFieldRole     = "role"
)

// UserStore is the credential store. It exclusively owns user records,
// stored as hashes under user:<username>.
type UserStore struct {
	kv KV
}

// NewUserStore creates a UserStore on top of the given key-value store.
func NewUserStore(kv KV) *UserStore {
	return &UserStore{kv: kv}
}

// userKey builds the storage key for a username.
func userKey(username string) string {
	return "user:" + username
}

// Exists reports whether a username is registered.
func (s *UserStore) Exists(ctx context.Context, username string) (bool, error) {
	return s.kv.Exists(ctx, userKey(username))
}

// Register creates a new user with the given password hash and the
// default role. Fails with ErrDuplicateUser if the username is taken.
// The exists-then-create pair is not transactional; a register race
// between two concurrent requests for the same username can interleave.
func (s *UserStore) Register(ctx context.Context, username, passwordHash string) error {
	exists, err := s.kv.Exists(ctx, userKey(username))
	if err != nil {
		return fmt.Errorf("checking username: %w", err)
	}
	if exists {
		return ErrDuplicateUser
	}

	return s.kv.HSet(ctx, userKey(username), map[string]string{
		userFieldPassword: passwordHash,
		userFieldRole:     model.RoleUser,
	})
}

// Verify checks a candidate password against the stored hash. It fails
// closed: an unknown user, a federated-only account (no hash) or a
// malformed hash all yield false. The comparison is constant-time.
func (s *UserStore) Verify(ctx context.Context, username, password string) (bool, error) {
	hash, err := s.kv.HGet(ctx, userKey(username), userFieldPassword)
	if err != nil {
		if errors.Is(err, ErrKeyMiss) {
			return false, nil
		}
		return false, fmt.Errorf("loading password hash: %w", err)
	}

	ok, err := auth.CheckPassword(password, hash)
	if err != nil {
		// Malformed stored hash: deny, never allow.
		return false, nil
	}
	return ok, nil
}

// GetRole returns the user's role, defaulting to "user" when unset.
func (s *UserStore) GetRole(ctx context.Context, username string) (string, error) {
	role, err := s.kv.HGet(ctx, userKey(username), userFieldRole)
	if err != nil {
		if errors.Is(err, ErrKeyMiss) {
			return model.RoleUser, nil
		}
		return "", fmt.Errorf("loading role: %w", err)
	}
	if role == "" {
		return model.RoleUser, nil
	}
	return role, nil
}

// EnsureRoleDefault idempotently assigns the default role the first time
// an identity is seen. Federated login uses this since it never collects
// a password.
func (s *UserStore) EnsureRoleDefault(ctx context.Context, username string) error {
	_, err := s.kv.HGet(ctx, userKey(username), userFieldRole)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrKeyMiss) {
		return fmt.Errorf("checking role: %w", err)
	}

	return s.kv.HSet(ctx, userKey(username), map[string]string{
		userFieldRole: model.RoleUser,
	})
}

// SetRole assigns a role to an existing user. Admin accounts are
// provisioned this way; there is no in-band promotion path.
func (s *UserStore) SetRole(ctx context.Context, username, role string) error {
	exists, err := s.kv.Exists(ctx, userKey(username))
	if err != nil {
		return fmt.Errorf("checking username: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}

	return s.kv.HSet(ctx, userKey(username), map[string]string{
		userFieldRole: role,
	})
}

// Get loads a user record. Fails with ErrUserNotFound for unknown names.
func (s *UserStore) Get(ctx context.Context, username string) (*model.User, error) {
	fields, err := s.kv.HGetAll(ctx, userKey(username))
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrUserNotFound
	}

	role := fields[userFieldRole]
	if role == "" {
		role = model.RoleUser
	}

	return &model.User{
		Username:     username,
		PasswordHash: fields[userFieldPassword],
		Role:         role,
	}, nil
}

// UpdatePasswordHash replaces the stored hash, used to transparently
// re-hash after a parameter change.
func (s *UserStore) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	exists, err := s.kv.Exists(ctx, userKey(username))
	if err != nil {
		return fmt.Errorf("checking username: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}

	return s.kv.HSet(ctx, userKey(username), map[string]string{
		userFieldPassword: passwordHash,
	})
}
