package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDay_TruncatesTimeOfDay(t *testing.T) {
	at := time.Date(2026, time.March, 10, 17, 45, 12, 999, time.UTC)
	assert.Equal(t, date(2026, time.March, 10), Day(at))
}

func TestDateRange_Overlaps(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     DateRange
		expected bool
	}{
		{
			name:     "disjoint",
			a:        NewDateRange(date(2026, time.March, 1), date(2026, time.March, 5)),
			b:        NewDateRange(date(2026, time.March, 6), date(2026, time.March, 9)),
			expected: false,
		},
		{
			name:     "shared boundary day",
			a:        NewDateRange(date(2026, time.March, 1), date(2026, time.March, 5)),
			b:        NewDateRange(date(2026, time.March, 5), date(2026, time.March, 9)),
			expected: true,
		},
		{
			name:     "nested",
			a:        NewDateRange(date(2026, time.March, 1), date(2026, time.March, 9)),
			b:        NewDateRange(date(2026, time.March, 3), date(2026, time.March, 4)),
			expected: true,
		},
		{
			name:     "single day ranges equal",
			a:        NewDateRange(date(2026, time.March, 2), date(2026, time.March, 2)),
			b:        NewDateRange(date(2026, time.March, 2), date(2026, time.March, 2)),
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.a.Overlaps(tc.b))
			// overlap is symmetric
			assert.Equal(t, tc.expected, tc.b.Overlaps(tc.a))
		})
	}
}

func TestDateRange_OverlapsItself(t *testing.T) {
	r := NewDateRange(date(2026, time.March, 1), date(2026, time.March, 5))
	assert.True(t, r.Overlaps(r))

	single := NewDateRange(date(2026, time.March, 1), date(2026, time.March, 1))
	assert.True(t, single.Overlaps(single))
}

func TestDateRange_Contains(t *testing.T) {
	r := NewDateRange(date(2026, time.March, 10), date(2026, time.March, 15))

	assert.True(t, r.Contains(date(2026, time.March, 10)))
	assert.True(t, r.Contains(date(2026, time.March, 12)))
	assert.True(t, r.Contains(date(2026, time.March, 15)))
	assert.False(t, r.Contains(date(2026, time.March, 9)))
	assert.False(t, r.Contains(date(2026, time.March, 16)))

	// time-of-day on the probe is ignored
	assert.True(t, r.Contains(time.Date(2026, time.March, 15, 23, 59, 0, 0, time.UTC)))
}

func TestDateRange_Days(t *testing.T) {
	assert.Equal(t, 1, NewDateRange(date(2026, time.March, 1), date(2026, time.March, 1)).Days())
	assert.Equal(t, 6, NewDateRange(date(2026, time.March, 10), date(2026, time.March, 15)).Days())
}
