package create_alert

import (
	"context"

	createAlert "github.com/m04kA/SMC-StaffingService/internal/usecase/create_alert"
)

type CreateAlertUseCase interface {
	Execute(ctx context.Context, req *createAlert.Request) (*createAlert.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
