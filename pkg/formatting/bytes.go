// Package formatting converts byte sizes between human-readable strings and counts.
package formatting

import (
	"fmt"
	"strconv"
	"strings"
)

var units = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders n with the largest base-1024 unit that keeps the value at or above 1.
func FormatBytes(n int64, precision int) string {
	if precision < 0 {
		precision = 0
	}

	size := float64(n)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}

	if i == 0 {
		return strconv.FormatInt(n, 10) + " B"
	}
	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[i]
}

// ParseBytes parses sizes such as "512KB", "1.5 MB" or "2048" (bytes) using base-1024 units.
// Units are case-insensitive.
func ParseBytes(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	multiplier := int64(1)
	for i := len(units) - 1; i >= 0; i-- {
		if rest, ok := strings.CutSuffix(s, units[i]); ok {
			s = strings.TrimSpace(rest)
			multiplier = int64(1) << (10 * i)
			break
		}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	return int64(value * float64(multiplier)), nil
}
