package matchevent

import (
	"fmt"
	"strings"
	"time"
)

const unknownAgeLabel = "recently"

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// FormatRelative renders the age of at relative to now using floored buckets:
// under a minute, minutes, hours, then days. A zero instant renders as "recently".
func FormatRelative(at, now time.Time) string {
	if at.IsZero() {
		return unknownAgeLabel
	}

	seconds := int64(now.Sub(at) / time.Second)
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return ago(seconds/60, "minute")
	case seconds < 86400:
		return ago(seconds/3600, "hour")
	default:
		return ago(seconds/86400, "day")
	}
}

func ago(count int64, unit string) string {
	if count != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", count, unit)
}

// ParseISOInstant reads an ISO-8601 timestamp. Values without a zone are taken as UTC.
// The zero time is returned for anything unparseable.
func ParseISOInstant(raw string) time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range isoLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

// UnixInstant converts epoch seconds. Non-positive values are treated as missing.
func UnixInstant(seconds int64) time.Time {
	if seconds <= 0 {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}
