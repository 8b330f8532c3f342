package util

import "strconv"

const DefaultPageSize = 10

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Clamp keeps page and size in sane bounds; oversized requests are trimmed
// rather than rejected.
func Clamp(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
