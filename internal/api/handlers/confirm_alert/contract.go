package confirm_alert

import (
	"context"

	confirmAlert "github.com/m04kA/SMC-StaffingService/internal/usecase/confirm_alert"
)

type ConfirmAlertUseCase interface {
	Execute(ctx context.Context, req *confirmAlert.Request) (*confirmAlert.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
