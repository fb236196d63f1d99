package dial

import (
	"fmt"
	"regexp"
	"strconv"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseClock parses an HH:MM time of day into minutes since midnight.
func ParseClock(value string) (int, error) {
	matches := clockPattern.FindStringSubmatch(value)
	if matches == nil {
		return 0, fmt.Errorf("invalid time format: %q", value)
	}
	h, _ := strconv.Atoi(matches[1])
	m, _ := strconv.Atoi(matches[2])
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid time value: %q", value)
	}
	return h*60 + m, nil
}

// FormatClock formats minutes as HH:MM, wrapping at midnight.
func FormatClock(minutes int) string {
	m := ((minutes % Day) + Day) % Day
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// FormatSpan formats a duration in minutes as "1h 30m".
func FormatSpan(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
