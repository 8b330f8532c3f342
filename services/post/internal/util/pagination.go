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

const MaxPageSize = 100

// Clamp keeps page and size in sane bounds; oversized requests are trimmed
// rather than rejected. The clamped values feed both the query and the cache
// key, so page 0 and page 1 map to one cache entry.
func Clamp(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}
