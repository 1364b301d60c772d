package utils

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Calculate turns a 1-indexed page and a page size into skip and limit.
// Out of range sizes fall back to the default. A page past what int64 can
// address skips everything.
func Calculate(page, size int) (skip, limit int64) {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	if int64(page-1) > math.MaxInt64/int64(size) {
		return math.MaxInt64, int64(size)
	}
	return int64(page-1) * int64(size), int64(size)
}

// ParseIntDefault parses s as a base 10 integer, returning def when s is empty or malformed.
func ParseIntDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
