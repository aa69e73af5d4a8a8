// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"strings"
	"unicode"
)

// ErrWeakPassword is returned when a candidate password fails the policy.
var ErrWeakPassword = errors.New("password must be at least 8 characters and contain one numeric and one special character")

// passwordSymbols is the fixed punctuation set a password must draw its
// special character from.
const passwordSymbols = `!@#$%^&*()_+={}[];:'"<>,.?/`

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// IsAcceptablePassword reports whether a candidate password satisfies the
// registration policy: at least MinPasswordLength characters, one digit
// and one symbol from passwordSymbols. Pure function, no side effects.
func IsAcceptablePassword(password string) bool {
	if len(password) < MinPasswordLength {
		return false
	}

	hasDigit := false
	for _, r := range password {
		if unicode.IsDigit(r) {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return false
	}

	return strings.ContainsAny(password, passwordSymbols)
}
