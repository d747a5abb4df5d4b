package models

import (
	"time"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
)

// Request модели

// ClaimAlertRequest запрос сотрудника на взятие смены
type ClaimAlertRequest struct {
	StaffID int64 `json:"staffId"`
}

// RejectAlertRequest запрос менеджера на отклонение claim
type RejectAlertRequest struct {
	ManagerID int64  `json:"managerId"`
	Reason    string `json:"reason"`
}

// CancelAlertRequest запрос на отмену алерта
type CancelAlertRequest struct {
	UserID int64 `json:"userId"`
}

// Response модели

// LocationResponse адрес смены
type LocationResponse struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// AlertResponse ответ с данными алерта
type AlertResponse struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	ServiceID   int64            `json:"serviceId"`
	ClientID    int64            `json:"clientId"`
	ManagerID   int64            `json:"managerId"`
	Location    LocationResponse `json:"location"`
	StartTime   time.Time        `json:"startTime"`
	EndTime     time.Time        `json:"endTime"`
	Status      string           `json:"status"`
	ClaimedBy   *int64           `json:"claimedBy,omitempty"`
	ClaimedAt   *time.Time       `json:"claimedAt,omitempty"`
	BookingID   *int64           `json:"bookingId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AlertListResponse ответ со списком алертов
type AlertListResponse struct {
	Alerts []AlertResponse `json:"alerts"`
}

// Методы конвертации

// FromDomainAlert конвертирует domain модель в DTO
func FromDomainAlert(a *domain.BookingAlert) *AlertResponse {
	if a == nil {
		return nil
	}

	return &AlertResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		ServiceID:   a.ServiceID,
		ClientID:    a.ClientID,
		ManagerID:   a.ManagerID,
		Location: LocationResponse{
			Address:   a.Location.Address,
			Latitude:  a.Location.Latitude,
			Longitude: a.Location.Longitude,
		},
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Status:    string(a.Status),
		ClaimedBy: a.ClaimedBy,
		ClaimedAt: a.ClaimedAt,
		BookingID: a.BookingID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// FromDomainAlertList конвертирует список domain моделей в DTO
func FromDomainAlertList(alerts []*domain.BookingAlert) *AlertListResponse {
	if alerts == nil {
		return &AlertListResponse{
			Alerts: []AlertResponse{},
		}
	}

	resp := &AlertListResponse{
		Alerts: make([]AlertResponse, len(alerts)),
	}

	for i, alert := range alerts {
		if alertResp := FromDomainAlert(alert); alertResp != nil {
			resp.Alerts[i] = *alertResp
		}
	}

	return resp
}
