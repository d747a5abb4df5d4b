package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	svcRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/svc"
	userRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/user"
	"github.com/m04kA/SMC-StaffingService/internal/integrations/notifier"
)

// accessWindowExtraHours запас окна доступа к HR документам после конца смены
const accessWindowExtraHours = 24

// UseCase use case для создания бронирования с проверкой конфликтов
//
// Порядок проверок фиксирован: обязательные поля, дневной лимит услуги,
// пересечение интервалов сотрудника, дубликат услуги за день (опционально),
// дневной лимит сотрудника. Все проверки и вставка выполняются в
// сериализуемой транзакции, чтобы конкурирующие запросы не могли создать
// пересекающиеся бронирования.
type UseCase struct {
	bookingRepo  BookingRepository
	userRepo     UserRepository
	serviceRepo  ServiceRepository
	auditRepo    AuditRepository
	notifier     NotifierClient
	hrClient     HRAccessClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	userRepo UserRepository,
	serviceRepo ServiceRepository,
	auditRepo AuditRepository,
	notifierClient NotifierClient,
	hrClient HRAccessClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
		serviceRepo:  serviceRepo,
		auditRepo:    auditRepo,
		notifier:     notifierClient,
		hrClient:     hrClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: creator=%d, client=%d, staff=%d, service=%d, start=%s, end=%s",
		req.CreatedBy, req.ClientID, req.StaffID, req.ServiceID,
		req.StartTime.Format(domain.DateFormat+" "+domain.TimeFormat),
		req.EndTime.Format(domain.DateFormat+" "+domain.TimeFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права создателя по таблице capabilities
	creator, err := uc.userRepo.GetByID(ctx, req.CreatedBy)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: creator id=%d not found", req.CreatedBy)
			return nil, ErrAccessDenied
		}
		uc.logger.Error("CreateBooking: failed to get creator id=%d: %v", req.CreatedBy, err)
		return nil, fmt.Errorf("%w: failed to get creator: %v", ErrInternal, err)
	}

	if !domain.RoleCan(creator.Role, domain.CapBookingCreate) {
		uc.logger.Warn("CreateBooking: user id=%d role=%s cannot create bookings", creator.ID, creator.Role)
		return nil, ErrAccessDenied
	}

	// 3. Получаем сотрудника
	staff, err := uc.userRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateBooking: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	if !staff.IsStaff() || !staff.Active {
		uc.logger.Warn("CreateBooking: user id=%d is not active staff (role=%s, active=%t)",
			staff.ID, staff.Role, staff.Active)
		return nil, ErrStaffNotFound
	}

	// 4. Получаем клиента
	client, err := uc.userRepo.GetByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: client id=%d not found", req.ClientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateBooking: failed to get client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}

	// 5. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, svcRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.Active {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", service.ID)
		return nil, ErrServiceNotFound
	}

	// Границы календарного дня бронирования (серверное локальное время)
	dayStart, dayEnd := domain.DayBounds(req.StartTime)
	window := domain.TimeWindow{Start: req.StartTime, End: req.EndTime}

	var result *domain.Booking

	// 6. Проверки конфликтов и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Дневной лимит услуги
		if service.HasDailyLimit() {
			count, err := uc.bookingRepo.CountByServiceOnDay(txCtx, service.ID, dayStart, dayEnd)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to count service bookings: %v", err)
				return fmt.Errorf("%w: failed to count service bookings: %v", ErrInternal, err)
			}
			if count >= service.DailyBookingLimit {
				uc.logger.Warn("CreateBooking: service id=%d daily limit reached (%d/%d)",
					service.ID, count, service.DailyBookingLimit)
				return NewLimitReachedError(service.ID, service.DailyBookingLimit)
			}
		}

		// 6.2. Пересечение с существующими бронированиями сотрудника
		overlapping, err := uc.bookingRepo.GetOverlapping(txCtx, staff.ID, window, nil)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to get overlapping bookings: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			conflict := overlapping[0]
			uc.logger.Warn("CreateBooking: staff id=%d conflicts with booking id=%d [%s - %s]",
				staff.ID, conflict.ID,
				conflict.StartTime.Format(domain.TimeFormat), conflict.EndTime.Format(domain.TimeFormat))
			return NewStaffConflictError(conflictDetails(conflict))
		}

		// 6.3. Дубликат той же услуги в тот же день (по запросу вызывающей стороны)
		if req.EnforceServiceLimit {
			sameService, err := uc.bookingRepo.GetByStaffServiceOnDay(txCtx, staff.ID, service.ID, dayStart, dayEnd)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to check same-service bookings: %v", err)
				return fmt.Errorf("%w: failed to check same-service bookings: %v", ErrInternal, err)
			}
			if len(sameService) > 0 {
				uc.logger.Warn("CreateBooking: staff id=%d already booked for service id=%d on %s",
					staff.ID, service.ID, req.StartTime.Format(domain.DateFormat))
				return NewSameServiceError(conflictDetails(sameService[0]))
			}
		}

		// 6.4. Дневной лимит сотрудника
		if staff.HasDailyLimit() {
			count, err := uc.bookingRepo.CountByStaffOnDay(txCtx, staff.ID, dayStart, dayEnd)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to count staff bookings: %v", err)
				return fmt.Errorf("%w: failed to count staff bookings: %v", ErrInternal, err)
			}
			if count >= staff.DailyBookingLimit {
				uc.logger.Warn("CreateBooking: staff id=%d daily limit reached (%d/%d)",
					staff.ID, count, staff.DailyBookingLimit)
				return NewStaffLimitReachedError(staff.ID, staff.DailyBookingLimit)
			}
		}

		// 6.5. Создаем бронирование с денормализацией данных
		booking := &domain.Booking{
			ClientID:    req.ClientID,
			StaffID:     req.StaffID,
			ServiceID:   req.ServiceID,
			ManagerID:   req.ManagerID,
			Title:       req.Title,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Status:      domain.StatusScheduled,
			Notes:       req.Notes,
			ServiceName: service.Name,
			StaffName:   staff.Name,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 7. Побочные эффекты после коммита: аудит, уведомление, HR доступ
	// Каждый best-effort - ошибка логируется и не откатывает бронирование
	uc.recordSideEffects(ctx, result, client)

	return &Response{
		ID:          result.ID,
		ClientID:    result.ClientID,
		StaffID:     result.StaffID,
		ServiceID:   result.ServiceID,
		ManagerID:   result.ManagerID,
		Title:       result.Title,
		StartTime:   result.StartTime,
		EndTime:     result.EndTime,
		Status:      string(result.Status),
		Notes:       result.Notes,
		ServiceName: result.ServiceName,
		StaffName:   result.StaffName,
		CreatedAt:   result.CreatedAt,
		UpdatedAt:   result.UpdatedAt,
	}, nil
}

func (uc *UseCase) recordSideEffects(ctx context.Context, booking *domain.Booking, client *domain.User) {
	entry := &domain.AuditEntry{
		Action:      domain.AuditBookingCreated,
		EntityType:  "booking",
		EntityID:    booking.ID,
		PerformedBy: booking.StaffID,
		Title:       booking.Title,
		Description: fmt.Sprintf("Booking created for service %q", booking.ServiceName),
		Details: map[string]interface{}{
			"startTime": booking.StartTime,
			"endTime":   booking.EndTime,
			"staffId":   booking.StaffID,
			"clientId":  booking.ClientID,
		},
	}
	if err := uc.auditRepo.Record(ctx, entry); err != nil {
		uc.logger.Error("CreateBooking: failed to record audit entry for booking id=%d: %v", booking.ID, err)
	}

	// Письмо клиенту только если email известен
	if client.Email != "" {
		payload := notifier.BookingPayload{
			BookingID:   booking.ID,
			Title:       booking.Title,
			ServiceName: booking.ServiceName,
			StaffName:   booking.StaffName,
			StartTime:   booking.StartTime,
			EndTime:     booking.EndTime,
			ClientID:    booking.ClientID,
			StaffID:     booking.StaffID,
		}
		if err := uc.notifier.SendBookingConfirmation(ctx, payload); err != nil {
			uc.logger.Error("CreateBooking: failed to send confirmation for booking id=%d: %v", booking.ID, err)
		}
	}

	windowHours := int(booking.EndTime.Sub(uc.timeProvider.Now()).Hours()) + accessWindowExtraHours
	if err := uc.hrClient.CreateAccessForBooking(ctx, booking.ID, windowHours); err != nil {
		uc.logger.Error("CreateBooking: failed to create document access for booking id=%d: %v", booking.ID, err)
	}
}
