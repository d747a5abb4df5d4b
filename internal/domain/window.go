package domain

import "time"

// TimeWindow is a half-open [Start, End) interval used for conflict checks
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// IsValid returns true if the window is non-empty and ordered
func (w TimeWindow) IsValid() bool {
	return !w.Start.IsZero() && !w.End.IsZero() && w.Start.Before(w.End)
}

// Overlaps reports whether an existing [start, end) interval overlaps the
// window. The test is the four-way comparison used everywhere scheduling
// conflicts are detected:
//
//	(a) existing start falls inside the window
//	(b) existing end falls inside the window
//	(c) existing interval fully spans the window
//	(d) existing interval fully within the window
func (w TimeWindow) Overlaps(start, end time.Time) bool {
	// (a) existing.start ∈ [window.start, window.end)
	if !start.Before(w.Start) && start.Before(w.End) {
		return true
	}
	// (b) existing.end ∈ (window.start, window.end]
	if end.After(w.Start) && !end.After(w.End) {
		return true
	}
	// (c) existing fully spans the window
	if !start.After(w.Start) && !end.Before(w.End) {
		return true
	}
	// (d) existing fully within the window
	if !start.Before(w.Start) && !end.After(w.End) {
		return true
	}
	return false
}

// SameCalendarDay reports whether two timestamps fall on the same
// calendar day in server-local time
func SameCalendarDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DayBounds returns local midnight-to-midnight bounds for the day of t
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
