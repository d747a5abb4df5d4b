package get_available_staff

import (
	"context"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	StaffIDsWithOverlapping(ctx context.Context, window domain.TimeWindow) ([]int64, error)
}

// LeaveRepository интерфейс репозитория заявок на отпуск
type LeaveRepository interface {
	StaffIDsOnApprovedLeave(ctx context.Context, window domain.TimeWindow) ([]int64, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetActiveStaff(ctx context.Context) ([]*domain.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
