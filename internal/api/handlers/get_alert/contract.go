package get_alert

import (
	"context"

	"github.com/m04kA/SMC-StaffingService/internal/service/alerts/models"
)

type AlertService interface {
	GetByID(ctx context.Context, id int64, userID int64) (*models.AlertResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
