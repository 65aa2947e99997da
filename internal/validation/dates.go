package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// twoDigitYearPivot resolves two-digit years: values below the pivot land
// in 20xx, the rest in 19xx.
const twoDigitYearPivot = 50

// ParseDate accepts ISO (YYYY-MM-DD) and US short (MM/DD/YY or
// MM/DD/YYYY) dates. Calendar validity is enforced, so day 31 of a 30-day
// month is rejected rather than normalized forward.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	var year, month, day int
	var err error

	switch {
	case strings.Contains(value, "-"):
		year, month, day, err = splitDate(value, "-", false)
	case strings.Contains(value, "/"):
		year, month, day, err = splitDate(value, "/", true)
	default:
		return time.Time{}, fmt.Errorf("unrecognized date format %q", value)
	}
	if err != nil {
		return time.Time{}, err
	}

	parsed := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if parsed.Year() != year || parsed.Month() != time.Month(month) || parsed.Day() != day {
		return time.Time{}, fmt.Errorf("invalid calendar date %q", value)
	}
	return parsed, nil
}

func splitDate(value, separator string, monthFirst bool) (year, month, day int, err error) {
	parts := strings.Split(value, separator)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("unrecognized date format %q", value)
	}

	numbers := make([]int, 3)
	for i, part := range parts {
		numbers[i], err = strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, 0, 0, fmt.Errorf("unrecognized date format %q", value)
		}
	}

	if monthFirst {
		month, day, year = numbers[0], numbers[1], numbers[2]
		if len(strings.TrimSpace(parts[2])) <= 2 {
			if year < twoDigitYearPivot {
				year += 2000
			} else {
				year += 1900
			}
		}
	} else {
		year, month, day = numbers[0], numbers[1], numbers[2]
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, fmt.Errorf("invalid calendar date %q", value)
	}
	return year, month, day, nil
}
