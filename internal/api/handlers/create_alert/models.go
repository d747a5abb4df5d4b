package create_alert

import (
	"time"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	createAlert "github.com/m04kA/SMC-StaffingService/internal/usecase/create_alert"
)

// LocationRequest адрес смены
type LocationRequest struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// DayRequest окно одного дня многодневного запроса
type DayRequest struct {
	StartTime string `json:"startTime"` // RFC 3339
	EndTime   string `json:"endTime"`   // RFC 3339
}

// CreateAlertRequest HTTP request model
type CreateAlertRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	ServiceID   int64           `json:"serviceId"`
	ClientID    int64           `json:"clientId"`
	Location    LocationRequest `json:"location"`
	Days        []DayRequest    `json:"days"`

	SendToAll             bool     `json:"sendToAll,omitempty"`
	SelectedLocationAreas []string `json:"selectedLocationAreas,omitempty"`

	SendAsNotification bool `json:"sendAsNotification,omitempty"`
	SendAsEmail        bool `json:"sendAsEmail,omitempty"`
}

// CreatedAlertResponse созданный алерт одного дня
type CreatedAlertResponse struct {
	ID        int64  `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
}

// CreateAlertResponse HTTP response model
type CreateAlertResponse struct {
	Alerts []CreatedAlertResponse `json:"alerts"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAlertRequest) ToUseCaseRequest(createdBy int64) (*createAlert.Request, error) {
	days := make([]createAlert.Day, len(r.Days))
	for i, day := range r.Days {
		startTime, err := time.Parse(time.RFC3339, day.StartTime)
		if err != nil {
			return nil, err
		}
		endTime, err := time.Parse(time.RFC3339, day.EndTime)
		if err != nil {
			return nil, err
		}
		days[i] = createAlert.Day{StartTime: startTime, EndTime: endTime}
	}

	return &createAlert.Request{
		CreatedBy:   createdBy,
		Title:       r.Title,
		Description: r.Description,
		ServiceID:   r.ServiceID,
		ClientID:    r.ClientID,
		Location: domain.Location{
			Address:   r.Location.Address,
			Latitude:  r.Location.Latitude,
			Longitude: r.Location.Longitude,
		},
		Days:                  days,
		SendToAll:             r.SendToAll,
		SelectedLocationAreas: r.SelectedLocationAreas,
		SendAsNotification:    r.SendAsNotification,
		SendAsEmail:           r.SendAsEmail,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAlert.Response) *CreateAlertResponse {
	alerts := make([]CreatedAlertResponse, len(resp.Alerts))
	for i, alert := range resp.Alerts {
		alerts[i] = CreatedAlertResponse{
			ID:        alert.ID,
			StartTime: alert.StartTime.Format(time.RFC3339),
			EndTime:   alert.EndTime.Format(time.RFC3339),
			Status:    alert.Status,
		}
	}

	return &CreateAlertResponse{Alerts: alerts}
}
