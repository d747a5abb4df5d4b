package confirm_alert

import (
	"time"

	confirmAlert "github.com/m04kA/SMC-StaffingService/internal/usecase/confirm_alert"
)

// ConfirmAlertResponse HTTP response model
type ConfirmAlertResponse struct {
	AlertID     int64  `json:"alertId"`
	AlertStatus string `json:"alertStatus"`
	BookingID   int64  `json:"bookingId"`
	StaffID     int64  `json:"staffId"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmAlert.Response) *ConfirmAlertResponse {
	return &ConfirmAlertResponse{
		AlertID:     resp.AlertID,
		AlertStatus: resp.AlertStatus,
		BookingID:   resp.BookingID,
		StaffID:     resp.StaffID,
		StartTime:   resp.StartTime.Format(time.RFC3339),
		EndTime:     resp.EndTime.Format(time.RFC3339),
	}
}
