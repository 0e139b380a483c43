// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer builds and dereferences optional values, mainly for partial
// update payloads where nil means "field omitted".
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// ValueOr dereferences p, returning fallback when p is nil.
func ValueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
