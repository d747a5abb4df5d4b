package create_leave

import (
	"time"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	"github.com/m04kA/SMC-StaffingService/internal/service/leave/models"
)

// CreateLeaveRequest HTTP request model
// Даты инклюзивные, формат "2006-01-02"
type CreateLeaveRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateLeaveRequest) ToServiceRequest(staffID int64) (*models.CreateLeaveRequest, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, err
	}

	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, err
	}

	return &models.CreateLeaveRequest{
		StaffID:   staffID,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    r.Reason,
	}, nil
}
