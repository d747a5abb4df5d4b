package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-StaffingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ClientID  int64   `json:"clientId"`
	StaffID   int64   `json:"staffId"`
	ServiceID int64   `json:"serviceId"`
	ManagerID *int64  `json:"managerId,omitempty"`
	Title     string  `json:"title"`
	StartTime string  `json:"startTime"` // RFC 3339
	EndTime   string  `json:"endTime"`   // RFC 3339
	Notes     *string `json:"notes,omitempty"`

	// Включает проверку "одна услуга на сотрудника в день"
	EnforceServiceLimit bool `json:"enforceServiceLimit,omitempty"`
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

// LimitResponse 409 ответ при достижении дневного лимита
type LimitResponse struct {
	Code              int    `json:"code"`
	Message           string `json:"message"`
	Limit             int    `json:"limit"`
	LimitReached      bool   `json:"limitReached,omitempty"`
	StaffLimitReached bool   `json:"staffLimitReached,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64   `json:"id"`
	ClientID    int64   `json:"clientId"`
	StaffID     int64   `json:"staffId"`
	ServiceID   int64   `json:"serviceId"`
	ManagerID   *int64  `json:"managerId,omitempty"`
	Title       string  `json:"title"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Status      string  `json:"status"`
	Notes       *string `json:"notes,omitempty"`
	ServiceName string  `json:"serviceName"`
	StaffName   string  `json:"staffName"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(createdBy int64) (*createBooking.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CreatedBy:           createdBy,
		ClientID:            r.ClientID,
		StaffID:             r.StaffID,
		ServiceID:           r.ServiceID,
		ManagerID:           r.ManagerID,
		Title:               r.Title,
		StartTime:           startTime,
		EndTime:             endTime,
		Notes:               r.Notes,
		EnforceServiceLimit: r.EnforceServiceLimit,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		ClientID:    resp.ClientID,
		StaffID:     resp.StaffID,
		ServiceID:   resp.ServiceID,
		ManagerID:   resp.ManagerID,
		Title:       resp.Title,
		StartTime:   resp.StartTime.Format(time.RFC3339),
		EndTime:     resp.EndTime.Format(time.RFC3339),
		Status:      resp.Status,
		Notes:       resp.Notes,
		ServiceName: resp.ServiceName,
		StaffName:   resp.StaffName,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}

// FromConflictError строит детали коллизии из типизированной ошибки
func FromConflictError(err *createBooking.ConflictError) *ConflictDetails {
	return &ConflictDetails{
		BookingID: err.Conflict.ID,
		Title:     err.Conflict.Title,
		StartTime: err.Conflict.StartTime.Format(time.RFC3339),
		EndTime:   err.Conflict.EndTime.Format(time.RFC3339),
	}
}
