// internal/matching/dates_test.go
package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDateOr(t *testing.T) {
	fallback := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"iso date", "2021-01-01", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"slash date", "2021/01/01", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"month name", "Jan 2, 2021", time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"year-month only", "2021-03", time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"empty", "", fallback},
		{"whitespace", "   ", fallback},
		{"legacy None literal", "None", fallback},
		{"null literal", "null", fallback},
		{"garbage", "soon-ish", fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDateOr(tt.input, fallback))
		})
	}
}

func TestEntryDays(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 730, entryDays("2021-01-01", "2023-01-01", now))
	assert.Equal(t, 0, entryDays("2023-01-01", "2021-01-01", now), "negative spans clamp to zero")
	assert.Equal(t, 365, entryDays("2024-06-15", "", now), "open entries run to now")
	assert.Equal(t, 0, entryDays("bad", "also bad", now), "double fallback is a same-day span")
}

func TestMonthsBetween(t *testing.T) {
	to := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, monthsBetween(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), to))
	assert.Equal(t, 5, monthsBetween(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), to),
		"day of month is ignored")
	assert.Equal(t, 24, monthsBetween(time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), to))
	assert.Equal(t, -1, monthsBetween(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), to))
}
