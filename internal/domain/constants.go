package domain

// Business validation constants
const (
	// MinLeaveNoticeDays minimum notice before a leave request may start
	MinLeaveNoticeDays = 7

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxRejectionReasonLength    = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveBookingStatuses список статусов, учитываемых при проверке конфликтов
var ActiveBookingStatuses = []BookingStatus{
	StatusScheduled,
	StatusInProgress,
	StatusCompleted,
}

// BlockingLeaveStatuses список статусов заявок на отпуск, блокирующих расписание
var BlockingLeaveStatuses = []LeaveStatus{
	LeavePending,
	LeaveApproved,
}
