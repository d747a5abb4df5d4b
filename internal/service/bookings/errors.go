package bookings

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrCannotUpdate возвращается, когда бронирование уже завершено или отменено
	ErrCannotUpdate = errors.New("booking cannot be updated")

	// ErrStaffConflict возвращается, когда новое время пересекается с другим
	// бронированием сотрудника
	ErrStaffConflict = errors.New("staff has a conflicting booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

// ConflictingBooking детали бронирования, с которым произошла коллизия
type ConflictingBooking struct {
	ID        int64
	Title     string
	StartTime time.Time
	EndTime   time.Time
}

// ConflictError ошибка пересечения интервалов с деталями для ответа клиенту
type ConflictError struct {
	Conflict ConflictingBooking
}

// NewConflictError создает ошибку пересечения с деталями
func NewConflictError(conflict ConflictingBooking) *ConflictError {
	return &ConflictError{Conflict: conflict}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: booking %d [%s - %s]", ErrStaffConflict, e.Conflict.ID,
		e.Conflict.StartTime.Format("15:04"), e.Conflict.EndTime.Format("15:04"))
}

// Unwrap позволяет errors.Is находить сентинел ErrStaffConflict
func (e *ConflictError) Unwrap() error {
	return ErrStaffConflict
}
