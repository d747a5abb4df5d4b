package alerts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	"github.com/m04kA/SMC-StaffingService/internal/integrations/notifier"
)

// AlertRepository интерфейс репозитория алертов
type AlertRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingAlert, error)
	ListOpen(ctx context.Context) ([]*domain.BookingAlert, error)
	ListStuckClaimed(ctx context.Context, claimedBefore time.Time) ([]*domain.BookingAlert, error)
	Claim(ctx context.Context, id int64, staffID int64, claimedAt time.Time) error
	Reject(ctx context.Context, id int64, rejection domain.AlertRejection) error
	Cancel(ctx context.Context, id int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	StaffIDsWithOverlapping(ctx context.Context, window domain.TimeWindow) ([]int64, error)
	GetOverlapping(ctx context.Context, staffID int64, window domain.TimeWindow, excludeID *int64) ([]*domain.Booking, error)
}

// LeaveRepository интерфейс репозитория заявок на отпуск
type LeaveRepository interface {
	StaffIDsOnApprovedLeave(ctx context.Context, window domain.TimeWindow) ([]int64, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// AuditRepository интерфейс журнала аудита
type AuditRepository interface {
	Record(ctx context.Context, entry *domain.AuditEntry) error
}

// NotifierClient интерфейс клиента диспетчера уведомлений
type NotifierClient interface {
	SendAlertClaimed(ctx context.Context, alert notifier.AlertPayload, managerID int64) error
	SendAlertRejected(ctx context.Context, alert notifier.AlertPayload, staffID int64, reason string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
