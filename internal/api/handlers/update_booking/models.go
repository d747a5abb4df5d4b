package update_booking

import (
	"time"

	"github.com/m04kA/SMC-StaffingService/internal/service/bookings/models"
)

// UpdateBookingRequest HTTP request model
// Указываются только изменяемые поля
type UpdateBookingRequest struct {
	Title     *string `json:"title,omitempty"`
	StartTime *string `json:"startTime,omitempty"` // RFC 3339
	EndTime   *string `json:"endTime,omitempty"`   // RFC 3339
	Status    *string `json:"status,omitempty"`
	Notes     *string `json:"notes,omitempty"`

	OverrideConflicts bool `json:"overrideConflicts,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateBookingRequest) ToServiceRequest(userID int64) (*models.UpdateBookingRequest, error) {
	req := &models.UpdateBookingRequest{
		UserID:            userID,
		Title:             r.Title,
		Status:            r.Status,
		Notes:             r.Notes,
		OverrideConflicts: r.OverrideConflicts,
	}

	if r.StartTime != nil {
		startTime, err := time.Parse(time.RFC3339, *r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &startTime
	}

	if r.EndTime != nil {
		endTime, err := time.Parse(time.RFC3339, *r.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = &endTime
	}

	return req, nil
}

// ConflictDetails детали коллизии для 409 ответа
type ConflictDetails struct {
	BookingID int64  `json:"bookingId"`
	Title     string `json:"title"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ConflictResponse 409 ответ с деталями конфликта расписания
type ConflictResponse struct {
	Code     int              `json:"code"`
	Message  string           `json:"message"`
	Conflict *ConflictDetails `json:"conflict,omitempty"`
}
