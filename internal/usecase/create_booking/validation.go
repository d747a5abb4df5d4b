package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
// Обязательные поля: услуга, сотрудник, клиент, время начала и конца
func validateRequest(req *Request) error {
	if req.CreatedBy <= 0 {
		return fmt.Errorf("%w: createdBy must be positive", ErrInvalidInput)
	}

	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.EndTime.IsZero() {
		return fmt.Errorf("%w: endTime is required", ErrInvalidInput)
	}

	if !req.StartTime.Before(req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// conflictDetails извлекает детали коллизии из существующего бронирования
func conflictDetails(booking *domain.Booking) ConflictingBooking {
	return ConflictingBooking{
		ID:        booking.ID,
		Title:     booking.Title,
		StartTime: booking.StartTime,
		EndTime:   booking.EndTime,
	}
}
