package withdraw_leave

import "context"

type LeaveService interface {
	Withdraw(ctx context.Context, leaveID int64, staffID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
