package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_WorksDuring(t *testing.T) {
	// 2026-09-15 - вторник
	start := time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)
	window := TimeWindow{Start: start, End: start.Add(8 * time.Hour)}

	schedule := &WeekSchedule{
		Tuesday: DaySchedule{Start: "08:00", End: "18:00", Available: true},
	}

	tests := []struct {
		name string
		user User
		win  TimeWindow
		want bool
	}{
		{"no schedule", User{}, window, true},
		{"within shift", User{WorkingHours: schedule}, window, true},
		{"day off", User{WorkingHours: &WeekSchedule{}}, window, false},
		{"starts before shift", User{WorkingHours: schedule},
			TimeWindow{Start: start.Add(-2 * time.Hour), End: start}, false},
		{"ends after shift", User{WorkingHours: schedule},
			TimeWindow{Start: start, End: start.Add(10 * time.Hour)}, false},
		{"spans midnight", User{WorkingHours: schedule},
			TimeWindow{Start: start, End: start.AddDate(0, 0, 1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.WorksDuring(tt.win))
		})
	}
}
