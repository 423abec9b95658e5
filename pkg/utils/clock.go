package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date layouts seen in fare endpoint payloads
const (
	DATE_LAYOUT    = "2006-01-02"
	VN_DATE_LAYOUT = "02/01/2006"
)

// NormalizeClock turns "8:05", "08:05" and "08:05:00" into "08:05".
// Values that are not a time of day are returned trimmed and unchanged.
func NormalizeClock(value string) string {
	if clock, ok := parseClock(value); ok {
		return clock
	}
	return strings.TrimSpace(value)
}

// IsClock reports whether value is a valid time of day
func IsClock(value string) bool {
	_, ok := parseClock(value)
	return ok
}

func parseClock(value string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", false
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", false
	}
	if len(parts[1]) != 2 {
		return "", false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", false
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// NormalizeDate accepts "2006-01-02" or "02/01/2006" and returns "2006-01-02"
func NormalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{DATE_LAYOUT, VN_DATE_LAYOUT} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(DATE_LAYOUT), nil
		}
	}
	return "", fmt.Errorf("unsupported date format: %q", value)
}
