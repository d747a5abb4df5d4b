package domain

import (
	"time"

	"github.com/m04kA/SMC-StaffingService/pkg/types"
)

// Role represents a user role in the system
type Role string

const (
	RoleSuperuser Role = "superuser"
	RoleManager   Role = "manager"
	RoleStaff     Role = "staff"
	RoleClient    Role = "client"
)

// DaySchedule represents working hours for a single weekday
type DaySchedule struct {
	Start     types.TimeString `json:"start"`
	End       types.TimeString `json:"end"`
	Available bool             `json:"available"`
}

// WeekSchedule represents a staff member's working-hours schedule
type WeekSchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// ForWeekday returns the schedule for the given weekday
func (s *WeekSchedule) ForWeekday(day time.Weekday) DaySchedule {
	switch day {
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	case time.Saturday:
		return s.Saturday
	case time.Sunday:
		return s.Sunday
	default:
		return DaySchedule{Available: false}
	}
}

// User represents an agency staff member, manager, superuser or client
type User struct {
	ID                int64
	Name              string
	Email             string
	Role              Role
	DailyBookingLimit int // 0 = no limit
	LocationArea      *string
	WorkingHours      *WeekSchedule
	Active            bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorksDuring reports whether the window falls inside the user's
// configured working hours. Users without a schedule are treated as
// always workable; windows spanning midnight fall outside any schedule.
func (u *User) WorksDuring(w TimeWindow) bool {
	if u.WorkingHours == nil {
		return true
	}

	day := u.WorkingHours.ForWeekday(w.Start.Weekday())
	if !day.Available {
		return false
	}
	if day.Start.IsZero() || day.End.IsZero() {
		return true
	}

	if !SameCalendarDay(w.Start, w.End) {
		return false
	}

	start := types.NewTimeString(w.Start)
	end := types.NewTimeString(w.End)
	return !start.IsBefore(day.Start) && !end.IsAfter(day.End)
}

// IsStaff returns true if the user has the staff role
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}

// HasDailyLimit returns true if the user has a per-day booking cap configured
func (u *User) HasDailyLimit() bool {
	return u.DailyBookingLimit > 0
}
