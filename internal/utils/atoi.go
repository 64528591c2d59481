// Package utils holds small helpers with no domain knowledge.
package utils

import "strconv"

// AtoiDefault parses s as a base-10 integer. An empty or unparseable
// string yields def; no whitespace trimming is applied.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
