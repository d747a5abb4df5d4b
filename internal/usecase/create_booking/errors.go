package create_booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrAccessDenied возвращается, когда у создателя нет прав на создание бронирований
	ErrAccessDenied = errors.New("create_booking: access denied")

	// ErrStaffNotFound возвращается, когда сотрудник не найден или не имеет staff роли
	ErrStaffNotFound = errors.New("create_booking: staff member not found")

	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("create_booking: client not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrStaffConflict возвращается, когда у сотрудника уже есть пересекающееся
	// активное бронирование. Детали конфликта несет ConflictError.
	ErrStaffConflict = errors.New("create_booking: staff already has an overlapping booking")

	// ErrSameServiceSameDay возвращается, когда у сотрудника уже есть активное
	// бронирование той же услуги в тот же календарный день
	// (проверяется только при EnforceServiceLimit)
	ErrSameServiceSameDay = errors.New("create_booking: staff already booked for this service on this day")

	// ErrServiceLimitReached возвращается при достижении дневного лимита услуги
	ErrServiceLimitReached = errors.New("create_booking: service daily booking limit reached")

	// ErrStaffLimitReached возвращается при достижении дневного лимита сотрудника
	ErrStaffLimitReached = errors.New("create_booking: staff daily booking limit reached")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// ConflictingBooking детали бронирования, с которым возник конфликт
// Передаются клиентскому UI, чтобы показать, с чем именно пересекается запрос
type ConflictingBooking struct {
	ID        int64
	Title     string
	StartTime time.Time
	EndTime   time.Time
}

// ConflictError ошибка конфликта расписания с деталями коллизии
// Разворачивается (Unwrap) в ErrStaffConflict или ErrSameServiceSameDay
type ConflictError struct {
	sentinel error
	Conflict ConflictingBooking
}

// NewStaffConflictError создает ошибку пересечения интервалов
func NewStaffConflictError(conflict ConflictingBooking) *ConflictError {
	return &ConflictError{sentinel: ErrStaffConflict, Conflict: conflict}
}

// NewSameServiceError создает ошибку дубликата услуги за день
func NewSameServiceError(conflict ConflictingBooking) *ConflictError {
	return &ConflictError{sentinel: ErrSameServiceSameDay, Conflict: conflict}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: conflicts with booking id=%d %q [%s - %s]",
		e.sentinel, e.Conflict.ID, e.Conflict.Title,
		e.Conflict.StartTime.Format(time.RFC3339), e.Conflict.EndTime.Format(time.RFC3339))
}

func (e *ConflictError) Unwrap() error {
	return e.sentinel
}

// LimitReachedError ошибка достижения дневного лимита услуги
// LimitReached всегда true - флаг для ветвления на вызывающей стороне
type LimitReachedError struct {
	ServiceID    int64
	Limit        int
	LimitReached bool
}

// NewLimitReachedError создает ошибку дневного лимита услуги
func NewLimitReachedError(serviceID int64, limit int) *LimitReachedError {
	return &LimitReachedError{ServiceID: serviceID, Limit: limit, LimitReached: true}
}

func (e *LimitReachedError) Error() string {
	return fmt.Sprintf("%v: service id=%d limit=%d", ErrServiceLimitReached, e.ServiceID, e.Limit)
}

func (e *LimitReachedError) Unwrap() error {
	return ErrServiceLimitReached
}

// StaffLimitReachedError ошибка достижения дневного лимита сотрудника
// StaffLimitReached всегда true - флаг для ветвления на вызывающей стороне
type StaffLimitReachedError struct {
	StaffID           int64
	Limit             int
	StaffLimitReached bool
}

// NewStaffLimitReachedError создает ошибку дневного лимита сотрудника
func NewStaffLimitReachedError(staffID int64, limit int) *StaffLimitReachedError {
	return &StaffLimitReachedError{StaffID: staffID, Limit: limit, StaffLimitReached: true}
}

func (e *StaffLimitReachedError) Error() string {
	return fmt.Sprintf("%v: staff id=%d limit=%d", ErrStaffLimitReached, e.StaffID, e.Limit)
}

func (e *StaffLimitReachedError) Unwrap() error {
	return ErrStaffLimitReached
}
