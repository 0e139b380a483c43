// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns created by the migrations.
//
// Both store backends build their SQL from these definitions so a column
// rename only has to happen here and in the migration files.
package schema

import "strings"

// List joins column names for a SELECT or INSERT clause.
func List(columns ...string) string {
	return strings.Join(columns, ", ")
}

// Qualified prefixes every column with alias.
func Qualified(alias string, columns ...string) string {
	qualified := make([]string, len(columns))
	for i, column := range columns {
		qualified[i] = alias + "." + column
	}
	return strings.Join(qualified, ", ")
}
