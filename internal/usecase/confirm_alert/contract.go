package confirm_alert

import (
	"context"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	"github.com/m04kA/SMC-StaffingService/internal/integrations/notifier"
)

// AlertRepository интерфейс репозитория алертов
type AlertRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingAlert, error)
	Confirm(ctx context.Context, id int64, bookingID int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetOverlapping(ctx context.Context, staffID int64, window domain.TimeWindow, excludeID *int64) ([]*domain.Booking, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// AuditRepository интерфейс журнала аудита
type AuditRepository interface {
	Record(ctx context.Context, entry *domain.AuditEntry) error
}

// NotifierClient интерфейс клиента диспетчера уведомлений
type NotifierClient interface {
	SendAlertConfirmed(ctx context.Context, alert notifier.AlertPayload, staffID int64) error
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
