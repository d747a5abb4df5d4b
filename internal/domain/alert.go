package domain

import "time"

// AlertStatus represents the lifecycle state of a booking alert
type AlertStatus string

const (
	AlertOpen                AlertStatus = "open"
	AlertClaimed             AlertStatus = "claimed"
	AlertPendingConfirmation AlertStatus = "pending_confirmation"
	AlertConfirmed           AlertStatus = "confirmed"
	AlertCancelled           AlertStatus = "cancelled"
)

// Location is the address (and optional coordinates) of an open shift
type Location struct {
	Address   string
	Latitude  *float64
	Longitude *float64
}

// AlertRejection records a manager rejecting a staff member's claim
type AlertRejection struct {
	StaffID    int64
	RejectedAt time.Time
	Reason     string
}

// BookingAlert represents an open shift offered to eligible staff for
// claiming. Lifecycle: open -> claimed -> pending_confirmation ->
// confirmed (terminal), with cancellation (terminal) before confirmation
// and manager rejection returning the alert to open.
type BookingAlert struct {
	ID          int64
	Title       string
	Description string
	ServiceID   int64
	ClientID    int64
	ManagerID   int64
	Location    Location

	StartTime time.Time
	EndTime   time.Time

	Status    AlertStatus
	ClaimedBy *int64
	ClaimedAt *time.Time

	RejectedStaff   []AlertRejection
	RejectionReason *string

	// Targeting
	SendToAll             bool
	SelectedLocationAreas []string

	// Notification preferences
	SendAsNotification bool
	SendAsEmail        bool
	EmailsSent         bool

	// Set when a confirmation creates the booking
	BookingID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true once the alert can no longer transition
func (a *BookingAlert) IsTerminal() bool {
	return a.Status == AlertConfirmed || a.Status == AlertCancelled
}

// IsClaimable returns true if staff may claim the alert
func (a *BookingAlert) IsClaimable() bool {
	return a.Status == AlertOpen
}

// AwaitingConfirmation returns true if a manager may confirm or reject
func (a *BookingAlert) AwaitingConfirmation() bool {
	return a.Status == AlertClaimed || a.Status == AlertPendingConfirmation
}

// TargetsArea reports whether the alert is offered to staff in the given
// location area
func (a *BookingAlert) TargetsArea(area *string) bool {
	if a.SendToAll {
		return true
	}
	if area == nil {
		return false
	}
	for _, selected := range a.SelectedLocationAreas {
		if selected == *area {
			return true
		}
	}
	return false
}

// WasRejectedFor reports whether the staff member's claim on this alert
// was previously rejected
func (a *BookingAlert) WasRejectedFor(staffID int64) bool {
	for _, r := range a.RejectedStaff {
		if r.StaffID == staffID {
			return true
		}
	}
	return false
}

// AlertDay is a single day of a multi-day alert request
type AlertDay struct {
	StartTime time.Time
	EndTime   time.Time
}
