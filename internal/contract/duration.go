package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ageRe captures "N [units]", e.g. "2 days" or "1 week".
var ageRe = regexp.MustCompile(`^(\d+)\s*(year|month|week|day|hour|minute)s?$`)

// ParseAge converts strings like "3 days" or "36h" into a time.Duration.
// Go duration syntax is tried first, then the human-readable form.
// Months and years are approximated as 30 and 365 days.
func ParseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("negative duration: %s", s)
		}
		return d, nil
	}

	matches := ageRe.FindStringSubmatch(strings.ToLower(s))
	if matches == nil {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}
	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration value: %s", s)
	}

	day := 24 * time.Hour
	var unit time.Duration
	switch matches[2] {
	case "year":
		unit = 365 * day
	case "month":
		unit = 30 * day
	case "week":
		unit = 7 * day
	case "day":
		unit = day
	case "hour":
		unit = time.Hour
	default:
		unit = time.Minute
	}
	if value > int(maxAge/unit) {
		return 0, fmt.Errorf("duration too large: %s", s)
	}
	return time.Duration(value) * unit, nil
}

const maxAge = time.Duration(1<<63 - 1)
