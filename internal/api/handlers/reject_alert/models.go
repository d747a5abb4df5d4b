package reject_alert

import "github.com/m04kA/SMC-StaffingService/internal/service/alerts/models"

// RejectAlertRequest HTTP request model
type RejectAlertRequest struct {
	Reason string `json:"reason"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *RejectAlertRequest) ToServiceRequest(managerID int64) *models.RejectAlertRequest {
	return &models.RejectAlertRequest{
		ManagerID: managerID,
		Reason:    r.Reason,
	}
}
