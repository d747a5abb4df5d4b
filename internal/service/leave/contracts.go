package leave

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
)

// LeaveRepository интерфейс репозитория заявок на отпуск
type LeaveRepository interface {
	Create(ctx context.Context, request *domain.LeaveRequest) (*domain.LeaveRequest, error)
	GetByID(ctx context.Context, id int64) (*domain.LeaveRequest, error)
	GetByStaff(ctx context.Context, staffID int64) ([]*domain.LeaveRequest, error)
	GetBlockingOverlapping(ctx context.Context, staffID int64, startDate, endDate time.Time) ([]*domain.LeaveRequest, error)
	Review(ctx context.Context, id int64, status domain.LeaveStatus, reviewerID int64, denialReason *string) error
	DeletePending(ctx context.Context, id int64) error
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
