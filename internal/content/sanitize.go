// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import "github.com/microcosm-cc/bluemonday"

// NewSanitizer builds the policy applied to post and comment bodies
// before storage: a fixed allow-list of inline markup, no attributes.
// Script and style bodies are elided entirely, so
// "<script>alert(1)</script>hello" stores as "hello".
func NewSanitizer() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "u", "s", "code")
	return p
}
