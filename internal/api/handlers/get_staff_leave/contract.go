package get_staff_leave

import (
	"context"

	"github.com/m04kA/SMC-StaffingService/internal/service/leave/models"
)

type LeaveService interface {
	GetStaffRequests(ctx context.Context, staffID int64, requesterID int64) (*models.LeaveListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
