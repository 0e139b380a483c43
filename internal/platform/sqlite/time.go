// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sqlite

import (
	"fmt"
	"time"
)

// TimeLayout is the fixed-width UTC layout used for timestamp columns.
// Fixed width keeps lexical ORDER BY equal to chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// FormatTime renders t for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a timestamp column written by [FormatTime].
func ParseTime(value string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: malformed timestamp %q: %w", value, err)
	}
	return t, nil
}
