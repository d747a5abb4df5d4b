package confirm_alert

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	alertRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/bookingalert"
	userRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/user"
	"github.com/m04kA/SMC-StaffingService/internal/integrations/notifier"
)

// UseCase use case подтверждения claim менеджером
//
// Подтверждение и создание бронирования выполняются в одной сериализуемой
// транзакции: либо алерт становится confirmed и ссылается на ровно одно
// созданное бронирование, либо не меняется ничего. Строка алерта берется
// под FOR UPDATE, так что параллельные confirm/reject сериализуются.
type UseCase struct {
	alertRepo   AlertRepository
	bookingRepo BookingRepository
	userRepo    UserRepository
	serviceRepo ServiceRepository
	auditRepo   AuditRepository
	notifier    NotifierClient
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	alertRepository AlertRepository,
	bookingRepo BookingRepository,
	userRepository UserRepository,
	serviceRepo ServiceRepository,
	auditRepo AuditRepository,
	notifierClient NotifierClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		alertRepo:   alertRepository,
		bookingRepo: bookingRepo,
		userRepo:    userRepository,
		serviceRepo: serviceRepo,
		auditRepo:   auditRepo,
		notifier:    notifierClient,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет use case подтверждения claim
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmAlert: alert=%d, confirmedBy=%d", req.AlertID, req.ConfirmedBy)

	// 1. Валидация входных данных
	if req.AlertID <= 0 || req.ConfirmedBy <= 0 {
		return nil, fmt.Errorf("%w: alertID and confirmedBy must be positive", ErrInvalidInput)
	}

	// 2. Проверяем права подтверждающего
	confirmer, err := uc.userRepo.GetByID(ctx, req.ConfirmedBy)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("ConfirmAlert: confirmer id=%d not found", req.ConfirmedBy)
			return nil, ErrAccessDenied
		}
		uc.logger.Error("ConfirmAlert: failed to get confirmer id=%d: %v", req.ConfirmedBy, err)
		return nil, fmt.Errorf("%w: failed to get confirmer: %v", ErrInternal, err)
	}

	if !domain.RoleCan(confirmer.Role, domain.CapAlertConfirm) {
		uc.logger.Warn("ConfirmAlert: user id=%d role=%s cannot confirm alerts", confirmer.ID, confirmer.Role)
		return nil, ErrAccessDenied
	}

	var (
		alert   *domain.BookingAlert
		booking *domain.Booking
	)

	// 3. Подтверждение и создание бронирования атомарны
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Читаем алерт под FOR UPDATE
		current, err := uc.alertRepo.GetByID(txCtx, req.AlertID)
		if err != nil {
			if errors.Is(err, alertRepo.ErrAlertNotFound) {
				return ErrAlertNotFound
			}
			uc.logger.Error("ConfirmAlert: failed to get alert id=%d: %v", req.AlertID, err)
			return fmt.Errorf("%w: failed to get alert: %v", ErrInternal, err)
		}

		if !current.AwaitingConfirmation() || current.ClaimedBy == nil {
			uc.logger.Warn("ConfirmAlert: alert id=%d is in status %s, cannot confirm", current.ID, current.Status)
			return ErrNotAwaitingConfirmation
		}

		staffID := *current.ClaimedBy

		// 3.2. У сотрудника не должно появиться пересекающихся бронирований
		// между claim и confirm
		window := domain.TimeWindow{Start: current.StartTime, End: current.EndTime}
		overlapping, err := uc.bookingRepo.GetOverlapping(txCtx, staffID, window, nil)
		if err != nil {
			uc.logger.Error("ConfirmAlert: failed to get overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to get overlapping bookings: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			uc.logger.Warn("ConfirmAlert: staff id=%d has conflicting booking id=%d for alert id=%d",
				staffID, overlapping[0].ID, current.ID)
			return ErrStaffConflict
		}

		// 3.3. Денормализованные имена для бронирования
		staff, err := uc.userRepo.GetByID(txCtx, staffID)
		if err != nil {
			uc.logger.Error("ConfirmAlert: failed to get staff id=%d: %v", staffID, err)
			return fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}

		service, err := uc.serviceRepo.GetByID(txCtx, current.ServiceID)
		if err != nil {
			uc.logger.Error("ConfirmAlert: failed to get service id=%d: %v", current.ServiceID, err)
			return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		// 3.4. Создаем бронирование из данных алерта
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			ClientID:    current.ClientID,
			StaffID:     staffID,
			ServiceID:   current.ServiceID,
			ManagerID:   &current.ManagerID,
			Title:       current.Title,
			StartTime:   current.StartTime,
			EndTime:     current.EndTime,
			Status:      domain.StatusScheduled,
			ServiceName: service.Name,
			StaffName:   staff.Name,
		})
		if err != nil {
			uc.logger.Error("ConfirmAlert: failed to create booking for alert id=%d: %v", current.ID, err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 3.5. Терминальный переход алерта со ссылкой на бронирование
		if err := uc.alertRepo.Confirm(txCtx, current.ID, created.ID); err != nil {
			if errors.Is(err, alertRepo.ErrStatusConflict) {
				return ErrNotAwaitingConfirmation
			}
			uc.logger.Error("ConfirmAlert: failed to confirm alert id=%d: %v", current.ID, err)
			return fmt.Errorf("%w: failed to confirm alert: %v", ErrInternal, err)
		}

		current.Status = domain.AlertConfirmed
		current.BookingID = &created.ID
		alert = current
		booking = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("ConfirmAlert: alert id=%d confirmed, booking id=%d created", alert.ID, booking.ID)

	// 4. Побочные эффекты после коммита
	uc.recordSideEffects(ctx, alert, booking, req.ConfirmedBy)

	return &Response{
		AlertID:     alert.ID,
		AlertStatus: string(alert.Status),
		BookingID:   booking.ID,
		StaffID:     booking.StaffID,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
	}, nil
}

func (uc *UseCase) recordSideEffects(ctx context.Context, alert *domain.BookingAlert, booking *domain.Booking, confirmedBy int64) {
	entry := &domain.AuditEntry{
		Action:      domain.AuditAlertConfirmed,
		EntityType:  "booking_alert",
		EntityID:    alert.ID,
		PerformedBy: confirmedBy,
		Title:       alert.Title,
		Description: fmt.Sprintf("Claim confirmed, booking %d created", booking.ID),
		Details: map[string]interface{}{
			"bookingId": booking.ID,
			"staffId":   booking.StaffID,
			"startTime": booking.StartTime,
			"endTime":   booking.EndTime,
		},
	}
	if err := uc.auditRepo.Record(ctx, entry); err != nil {
		uc.logger.Error("ConfirmAlert: failed to record audit entry for alert id=%d: %v", alert.ID, err)
	}

	payload := notifier.AlertPayload{
		AlertID:     alert.ID,
		Title:       alert.Title,
		Description: alert.Description,
		Address:     alert.Location.Address,
		StartTime:   alert.StartTime,
		EndTime:     alert.EndTime,
	}
	if err := uc.notifier.SendAlertConfirmed(ctx, payload, booking.StaffID); err != nil {
		uc.logger.Error("ConfirmAlert: failed to notify staff id=%d for alert id=%d: %v",
			booking.StaffID, alert.ID, err)
	}
}
