package review_leave

import "github.com/m04kA/SMC-StaffingService/internal/service/leave/models"

// ReviewLeaveRequest HTTP request model
type ReviewLeaveRequest struct {
	Approve      bool    `json:"approve"`
	DenialReason *string `json:"denialReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ReviewLeaveRequest) ToServiceRequest(reviewerID int64) *models.ReviewLeaveRequest {
	return &models.ReviewLeaveRequest{
		ReviewerID:   reviewerID,
		Approve:      r.Approve,
		DenialReason: r.DenialReason,
	}
}
