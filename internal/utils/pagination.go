// Package utils provides small helpers shared across the HTTP handlers.
package utils

import "strconv"

// AtoiDefault parses the numeric query parameters of the listing endpoints
// ("limit" on the recipe and image lists). Empty or unparsable input yields
// the default, so a missing parameter and a garbage one behave the same.
//
//	limit := utils.AtoiDefault(c.Query("limit"), 0) // 0 means unlimited
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
