package cancel_alert

import (
	"context"

	"github.com/m04kA/SMC-StaffingService/internal/service/alerts/models"
)

type AlertService interface {
	Cancel(ctx context.Context, alertID int64, req *models.CancelAlertRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
