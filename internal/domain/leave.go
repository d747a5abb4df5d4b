package domain

import "time"

// LeaveStatus represents the status of a leave request
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveDenied   LeaveStatus = "denied"
)

// LeaveRequest represents a staff absence request for an inclusive
// [StartDate, EndDate] date range
type LeaveRequest struct {
	ID        int64
	StaffID   int64
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	Status    LeaveStatus

	ReviewedBy   *int64
	ReviewedAt   *time.Time
	DenialReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPending returns true while the request awaits review
func (l *LeaveRequest) IsPending() bool {
	return l.Status == LeavePending
}

// BlocksScheduling returns true if the request counts against availability
func (l *LeaveRequest) BlocksScheduling() bool {
	return l.Status == LeavePending || l.Status == LeaveApproved
}
