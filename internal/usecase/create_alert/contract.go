package create_alert

import (
	"context"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	"github.com/m04kA/SMC-StaffingService/internal/integrations/notifier"
)

// AlertRepository интерфейс репозитория алертов
type AlertRepository interface {
	Create(ctx context.Context, alert *domain.BookingAlert) (*domain.BookingAlert, error)
	MarkEmailsSent(ctx context.Context, id int64) error
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetActiveStaff(ctx context.Context) ([]*domain.User, error)
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
	SendAlertCreated(ctx context.Context, alert notifier.AlertPayload, recipientIDs []int64, asEmail, asPush bool) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
