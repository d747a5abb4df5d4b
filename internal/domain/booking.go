package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusScheduled  BookingStatus = "scheduled"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// Booking represents a confirmed shift linking a staff member, client and
// service for a [StartTime, EndTime) interval
type Booking struct {
	ID        int64
	ClientID  int64
	StaffID   int64
	ServiceID int64
	ManagerID *int64

	Title     string
	StartTime time.Time
	EndTime   time.Time
	Status    BookingStatus
	Notes     *string

	// Denormalized data for history
	ServiceName string
	StaffName   string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking counts against scheduling constraints
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusScheduled || b.Status == StatusInProgress
}

// CanBeUpdated returns true if the booking details can still change
func (b *Booking) CanBeUpdated() bool {
	return b.Status == StatusScheduled || b.Status == StatusInProgress
}

// Overlaps reports whether the booking's [StartTime, EndTime) interval
// overlaps the given window
func (b *Booking) Overlaps(w TimeWindow) bool {
	return w.Overlaps(b.StartTime, b.EndTime)
}

// StaffBookingsFilter фильтр для получения бронирований сотрудника
type StaffBookingsFilter struct {
	StaffID         int64
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые бронирования
}
