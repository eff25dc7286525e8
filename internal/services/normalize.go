package services

import (
	"strings"
	"time"
)

// Bounded timeouts for the two external round trips. Neither call retries;
// the caller owns resubmission (the booking conflict key makes that safe).
const (
	storeTimeout = 10 * time.Second
	relayTimeout = 10 * time.Second
)

// normalizeText trims leading and trailing whitespace
func normalizeText(value string) string {
	return strings.TrimSpace(value)
}

// normalizePhone strips every non-digit character. No country-code
// canonicalization and no length validation beyond non-emptiness.
func normalizePhone(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// truncateRunes caps a string at max runes
func truncateRunes(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}

// nilIfEmpty maps "" to nil so optional columns stay NULL
func nilIfEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// Layouts accepted from the form's datetime-local input
var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parseLocalDateTime parses a local date-time string into an absolute UTC
// instant. Zoned RFC3339 values are accepted as-is; bare datetime-local
// values are interpreted in the server's zone. Returns false when the value
// is unparseable, which callers treat as "absent".
func parseLocalDateTime(value string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), true
	}
	for _, layout := range localDateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
