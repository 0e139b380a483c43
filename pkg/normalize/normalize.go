// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package normalize canonicalizes user-supplied identifiers before they are
// stored or compared.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// Email returns the canonical form of an email address.
//
// # Transformation Pipeline
//
// 1. Trims surrounding whitespace.
// 2. Normalizes to NFKC so visually identical addresses compare equal.
// 3. Lowercases the whole address.
func Email(address string) string {
	result := strings.TrimSpace(address)
	result = norm.NFKC.String(result)
	return lower.String(result)
}
