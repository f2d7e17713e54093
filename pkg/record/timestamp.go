package record

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the serialized timestamp format shared by every record.
const TimeLayout = time.DateTime

// FormatTime renders t in TimeLayout after UTC normalization.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a serialized timestamp. TimeLayout is tried first, then
// RFC3339 for records produced by other tools. Results are in UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	parsed, layoutErr := time.ParseInLocation(TimeLayout, s, time.UTC)
	if layoutErr == nil {
		return parsed, nil
	}

	parsed, rfcErr := time.Parse(time.RFC3339, s)
	if rfcErr == nil {
		return parsed.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// ParseDate parses a YYYY-MM-DD calendar date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	parsed, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}

	return parsed, nil
}
