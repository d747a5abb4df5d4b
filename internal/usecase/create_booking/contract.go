package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	"github.com/m04kA/SMC-StaffingService/internal/integrations/notifier"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetOverlapping(ctx context.Context, staffID int64, window domain.TimeWindow, excludeID *int64) ([]*domain.Booking, error)
	CountByServiceOnDay(ctx context.Context, serviceID int64, dayStart, dayEnd time.Time) (int, error)
	CountByStaffOnDay(ctx context.Context, staffID int64, dayStart, dayEnd time.Time) (int, error)
	GetByStaffServiceOnDay(ctx context.Context, staffID, serviceID int64, dayStart, dayEnd time.Time) ([]*domain.Booking, error)
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
	SendBookingConfirmation(ctx context.Context, booking notifier.BookingPayload) error
}

// HRAccessClient интерфейс клиента менеджера доступа к HR документам
type HRAccessClient interface {
	CreateAccessForBooking(ctx context.Context, bookingID int64, windowHours int) error
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
