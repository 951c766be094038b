package roadmap

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseQuarter converts a "Qn YYYY" string to the first day of the quarter's
// first month in UTC, e.g. "Q1 2025" -> 2025-01-01
func ParseQuarter(quarter string) (time.Time, error) {
	fields := strings.Fields(strings.TrimSpace(quarter))
	if len(fields) != 2 {
		return time.Time{}, fmt.Errorf("invalid quarter format %q", quarter)
	}

	q := strings.ToUpper(fields[0])
	if len(q) != 2 || q[0] != 'Q' {
		return time.Time{}, fmt.Errorf("invalid quarter designator %q", fields[0])
	}
	num := int(q[1] - '0')
	if num < 1 || num > 4 {
		return time.Time{}, fmt.Errorf("quarter out of range in %q", quarter)
	}

	year, err := strconv.Atoi(fields[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year in %q: %w", quarter, err)
	}

	month := time.Month((num-1)*3 + 1)
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), nil
}
