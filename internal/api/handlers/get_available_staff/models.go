package get_available_staff

import (
	"time"

	getAvailableStaff "github.com/m04kA/SMC-StaffingService/internal/usecase/get_available_staff"
)

// StaffMemberResponse свободный сотрудник
type StaffMemberResponse struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	WithinWorkingHours bool   `json:"withinWorkingHours"`
}

// AvailableStaffResponse HTTP response model
type AvailableStaffResponse struct {
	StartTime string                `json:"startTime"`
	EndTime   string                `json:"endTime"`
	Staff     []StaffMemberResponse `json:"staff"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableStaff.Response) *AvailableStaffResponse {
	staff := make([]StaffMemberResponse, len(resp.Staff))
	for i, member := range resp.Staff {
		staff[i] = StaffMemberResponse{
			ID:                 member.ID,
			Name:               member.Name,
			WithinWorkingHours: member.WithinWorkingHours,
		}
	}

	return &AvailableStaffResponse{
		StartTime: resp.StartTime.Format(time.RFC3339),
		EndTime:   resp.EndTime.Format(time.RFC3339),
		Staff:     staff,
	}
}
