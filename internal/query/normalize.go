package query

import (
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
	// MaxLimit caps the page size regardless of the requested limit.
	MaxLimit = 100
)

// NormalizeOrDefault parses raw as a positive integer, returning def for
// empty, non-numeric, zero or negative input.
func NormalizeOrDefault(raw string, def uint64) uint64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v <= 0 {
		return def
	}
	return uint64(v)
}
