package util

import "strconv"

// ParseIntDefault returns def for an empty string and an error for
// anything that is not an integer.
func ParseIntDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	from = (page - 1) * size
	return from, size
}
