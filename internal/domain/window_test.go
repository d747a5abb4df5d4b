package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("failed to parse time %q: %v", value, err)
	}
	return parsed
}

func TestTimeWindowOverlaps(t *testing.T) {
	window := TimeWindow{
		Start: mustTime(t, "2026-09-01 09:00"),
		End:   mustTime(t, "2026-09-01 17:00"),
	}

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"start inside window", "2026-09-01 10:00", "2026-09-01 18:00", true},
		{"end inside window", "2026-09-01 08:00", "2026-09-01 10:00", true},
		{"fully spans window", "2026-09-01 08:00", "2026-09-01 18:00", true},
		{"fully within window", "2026-09-01 10:00", "2026-09-01 11:00", true},
		{"identical interval", "2026-09-01 09:00", "2026-09-01 17:00", true},
		{"ends exactly at window start", "2026-09-01 08:00", "2026-09-01 09:00", false},
		{"starts exactly at window end", "2026-09-01 17:00", "2026-09-01 18:00", false},
		{"entirely before", "2026-09-01 06:00", "2026-09-01 07:00", false},
		{"entirely after", "2026-09-01 19:00", "2026-09-01 20:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := window.Overlaps(mustTime(t, tt.start), mustTime(t, tt.end))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeWindowIsValid(t *testing.T) {
	start := mustTime(t, "2026-09-01 09:00")
	end := mustTime(t, "2026-09-01 17:00")

	assert.True(t, TimeWindow{Start: start, End: end}.IsValid())
	assert.False(t, TimeWindow{Start: end, End: start}.IsValid())
	assert.False(t, TimeWindow{Start: start, End: start}.IsValid())
	assert.False(t, TimeWindow{End: end}.IsValid())
}

func TestDayBounds(t *testing.T) {
	ts := mustTime(t, "2026-09-01 14:30")

	dayStart, dayEnd := DayBounds(ts)

	assert.Equal(t, mustTime(t, "2026-09-01 00:00"), dayStart)
	assert.Equal(t, mustTime(t, "2026-09-02 00:00"), dayEnd)
}

func TestSameCalendarDay(t *testing.T) {
	assert.True(t, SameCalendarDay(mustTime(t, "2026-09-01 00:00"), mustTime(t, "2026-09-01 23:59")))
	assert.False(t, SameCalendarDay(mustTime(t, "2026-09-01 23:59"), mustTime(t, "2026-09-02 00:00")))
}
