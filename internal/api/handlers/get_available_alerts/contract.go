package get_available_alerts

import (
	"context"

	"github.com/m04kA/SMC-StaffingService/internal/service/alerts/models"
)

type AlertService interface {
	ListAvailableForStaff(ctx context.Context, staffID int64) (*models.AlertListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
