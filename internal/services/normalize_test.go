package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"+880 171-234567", "880171234567"},
		{"01712345678", "01712345678"},
		{"(017) 123 456-78", "01712345678"},
		{"call me", ""},
		{"", ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, normalizePhone(tc.input), "input %q", tc.input)
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "abc", truncateRunes("abcde", 3))

	// Truncation counts runes, not bytes
	assert.Equal(t, "héllo", truncateRunes("héllo world", 5))
}

func TestNilIfEmpty(t *testing.T) {
	assert.Nil(t, nilIfEmpty(""))

	got := nilIfEmpty("x")
	assert.NotNil(t, got)
	assert.Equal(t, "x", *got)
}

func TestParseLocalDateTime(t *testing.T) {
	// datetime-local values are interpreted in the server's zone
	got, ok := parseLocalDateTime("2030-01-01T10:00")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2030, 1, 1, 10, 0, 0, 0, time.Local).UTC(), got)
	assert.Equal(t, time.UTC, got.Location())

	// Seconds variant
	got, ok = parseLocalDateTime("2030-01-01T10:00:30")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2030, 1, 1, 10, 0, 30, 0, time.Local).UTC(), got)

	// Zoned values pass through unchanged
	got, ok = parseLocalDateTime("2030-01-01T10:00:00+06:00")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2030, 1, 1, 4, 0, 0, 0, time.UTC), got)
}

func TestParseLocalDateTime_Unparseable(t *testing.T) {
	for _, input := range []string{"", "next tuesday", "2030-13-01T10:00", "01/01/2030 10:00"} {
		_, ok := parseLocalDateTime(input)
		assert.False(t, ok, "input %q", input)
	}
}
