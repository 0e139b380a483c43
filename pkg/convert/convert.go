// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides fault-tolerant conversions for query string values.

Malformed input yields the supplied default instead of an error. Do not use it
where a malformed value must be reported back to the client.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD converts str to an int, returning def when str is empty or malformed.
func ToIntD(str string, def int) int {
	str = strings.TrimSpace(str)
	if str == "" {
		return def
	}

	if v, err := strconv.Atoi(str); err == nil {
		return v
	}

	return def
}
