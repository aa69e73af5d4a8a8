// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "github.com/olegiv/oblog-go/internal/model"

// CanDelete is the single source of truth for deletion rights: the acting
// identity may delete a resource iff it owns the resource or holds the
// admin role. Callers resolve actingRole via the credential store and
// owner via the content store; any lookup failure must map to empty
// inputs here, which deny.
func CanDelete(actingUsername, actingRole, owner string) bool {
	if actingUsername == "" || owner == "" {
		return false
	}
	return actingUsername == owner || actingRole == model.RoleAdmin
}
