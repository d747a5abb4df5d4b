package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/booking"
	userRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/user"
	"github.com/m04kA/SMC-StaffingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-StaffingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	userRepo    UserRepository
	auditRepo   AuditRepository
	notifier    NotifierClient
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	userRepo UserRepository,
	auditRepo AuditRepository,
	notifierClient NotifierClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		notifier:    notifierClient,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - участник бронирования (клиент, сотрудник,
// менеджер) или роль с полными правами
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkBookingAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetStaffBookings получает расписание сотрудника с гибкой фильтрацией
// по периоду, статусу и включению отменённых бронирований
// Доступно самому сотруднику и ролям с правом просмотра расписаний
func (s *Service) GetStaffBookings(ctx context.Context, req *models.GetStaffBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetStaffBookings: fetching bookings for staff=%d, user=%d", req.StaffID, req.UserID)

	if req.UserID != req.StaffID {
		requester, err := s.getUser(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if !domain.RoleCan(requester.Role, domain.CapStaffAvailabilityView) {
			s.logger.Warn("GetStaffBookings: access denied for user=%d to staff=%d schedule", req.UserID, req.StaffID)
			return nil, ErrAccessDenied
		}
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetStaffBookings: invalid filter for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByStaffWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetStaffBookings: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetStaffBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStaffBookings: successfully fetched %d bookings for staff=%d", len(bookings), req.StaffID)
	return models.FromDomainBookingList(bookings), nil
}

// Update обновляет бронирование
// Смена времени повторно проверяет пересечения с расписанием сотрудника;
// роль с правом override может пропустить проверку явным флагом
func (s *Service) Update(ctx context.Context, bookingID int64, req *models.UpdateBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Update: updating booking id=%d by user=%d", bookingID, req.UserID)

	user, err := s.getUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if !domain.RoleCan(user.Role, domain.CapBookingUpdate) {
		s.logger.Warn("Update: user=%d role=%s cannot update bookings", user.ID, user.Role)
		return nil, ErrAccessDenied
	}

	if err := validateUpdateRequest(req); err != nil {
		s.logger.Warn("Update: validation failed for booking id=%d: %v", bookingID, err)
		return nil, err
	}

	skipConflictCheck := req.OverrideConflicts && domain.RoleCan(user.Role, domain.CapBookingOverride)

	var updated *domain.Booking

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Update: booking id=%d not found", bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("Update: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		if err := s.checkBookingAccess(txCtx, booking, req.UserID); err != nil {
			s.logger.Warn("Update: access denied for user=%d to booking id=%d", req.UserID, bookingID)
			return err
		}

		if !booking.CanBeUpdated() {
			s.logger.Warn("Update: booking id=%d cannot be updated, status=%s", bookingID, booking.Status)
			return ErrCannotUpdate
		}

		applyUpdate(booking, req)

		if !booking.StartTime.Before(booking.EndTime) {
			return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
		}

		// Повторная проверка пересечений при смене времени
		timeChanged := req.StartTime != nil || req.EndTime != nil
		if timeChanged && !skipConflictCheck {
			window := domain.TimeWindow{Start: booking.StartTime, End: booking.EndTime}
			overlapping, err := s.bookingRepo.GetOverlapping(txCtx, booking.StaffID, window, &booking.ID)
			if err != nil {
				s.logger.Error("Update: failed to get overlapping bookings: %v", err)
				return fmt.Errorf("%w: Update - failed to get overlapping bookings: %v", ErrInternal, err)
			}
			if len(overlapping) > 0 {
				conflict := overlapping[0]
				s.logger.Warn("Update: booking id=%d conflicts with booking id=%d", bookingID, conflict.ID)
				return NewConflictError(ConflictingBooking{
					ID:        conflict.ID,
					Title:     conflict.Title,
					StartTime: conflict.StartTime,
					EndTime:   conflict.EndTime,
				})
			}
		}

		if err := s.bookingRepo.Update(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Update: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		updated = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated booking id=%d", bookingID)

	// Побочные эффекты best-effort
	s.recordAudit(ctx, domain.AuditBookingUpdated, updated, req.UserID, "Booking updated")
	if err := s.notifier.SendBookingUpdate(ctx, bookingPayload(updated)); err != nil {
		s.logger.Error("Update: failed to send update notification for booking id=%d: %v", bookingID, err)
	}

	return models.FromDomainBooking(updated), nil
}

// Cancel отменяет бронирование с указанием причины
// Участник бронирования отменяет своё, менеджер - любое
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	user, err := s.getUser(ctx, req.UserID)
	if err != nil {
		return err
	}

	if !domain.RoleCan(user.Role, domain.CapBookingCancel) {
		s.logger.Warn("Cancel: user=%d role=%s cannot cancel bookings", user.ID, user.Role)
		return ErrAccessDenied
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if err := s.checkBookingAccess(ctx, booking, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
		return err
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)

	s.recordAudit(ctx, domain.AuditBookingCancelled, booking, req.UserID,
		fmt.Sprintf("Booking cancelled: %s", req.CancellationReason))
	if err := s.notifier.SendBookingCancellation(ctx, bookingPayload(booking)); err != nil {
		s.logger.Error("Cancel: failed to send cancellation notification for booking id=%d: %v", bookingID, err)
	}

	return nil
}

// Delete физически удаляет бронирование
// Доступно только ролям с правом удаления (менеджеры и суперпользователи)
func (s *Service) Delete(ctx context.Context, bookingID int64, userID int64) error {
	s.logger.Info("Delete: deleting booking id=%d by user=%d", bookingID, userID)

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if !domain.RoleCan(user.Role, domain.CapBookingDelete) {
		s.logger.Warn("Delete: user=%d role=%s cannot delete bookings", user.ID, user.Role)
		return ErrAccessDenied
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Delete: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	if err := s.bookingRepo.Delete(ctx, bookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted booking id=%d", bookingID)

	s.recordAudit(ctx, domain.AuditBookingDeleted, booking, userID, "Booking deleted")
	return nil
}

// Вспомогательные методы

// checkBookingAccess проверяет, что пользователь является участником
// бронирования либо имеет роль с полными правами
func (s *Service) checkBookingAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.ClientID == userID || booking.StaffID == userID {
		return nil
	}
	if booking.ManagerID != nil && *booking.ManagerID == userID {
		return nil
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.Role == domain.RoleManager || user.Role == domain.RoleSuperuser {
		return nil
	}

	return ErrAccessDenied
}

func (s *Service) getUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("getUser: user id=%d not found", userID)
			return nil, ErrUserNotFound
		}
		s.logger.Error("getUser: failed to get user id=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: getUser - repository error: %v", ErrInternal, err)
	}
	return user, nil
}

func (s *Service) recordAudit(ctx context.Context, action string, booking *domain.Booking, performedBy int64, description string) {
	entry := &domain.AuditEntry{
		Action:      action,
		EntityType:  "booking",
		EntityID:    booking.ID,
		PerformedBy: performedBy,
		Title:       booking.Title,
		Description: description,
		Details: map[string]interface{}{
			"startTime": booking.StartTime,
			"endTime":   booking.EndTime,
			"staffId":   booking.StaffID,
			"clientId":  booking.ClientID,
			"status":    booking.Status,
		},
	}
	if err := s.auditRepo.Record(ctx, entry); err != nil {
		s.logger.Error("recordAudit: failed to record %s for booking id=%d: %v", action, booking.ID, err)
	}
}

// validateUpdateRequest валидирует изменяемые поля
func validateUpdateRequest(req *models.UpdateBookingRequest) error {
	if req.Title != nil && *req.Title == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			return fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		// Отмена идет через Cancel с обязательной причиной
		if status == domain.StatusCancelled {
			return fmt.Errorf("%w: use cancel endpoint to cancel a booking", ErrInvalidInput)
		}
	}

	return nil
}

// applyUpdate накладывает изменяемые поля запроса на бронирование
func applyUpdate(booking *domain.Booking, req *models.UpdateBookingRequest) {
	if req.Title != nil {
		booking.Title = *req.Title
	}
	if req.StartTime != nil {
		booking.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		booking.EndTime = *req.EndTime
	}
	if req.Notes != nil {
		booking.Notes = req.Notes
	}
	if req.Status != nil {
		// Статус уже провалидирован в validateUpdateRequest
		status, _ := models.ToDomainBookingStatus(*req.Status)
		booking.Status = status
	}
}

func bookingPayload(b *domain.Booking) notifier.BookingPayload {
	return notifier.BookingPayload{
		BookingID:   b.ID,
		Title:       b.Title,
		ServiceName: b.ServiceName,
		StaffName:   b.StaffName,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		ClientID:    b.ClientID,
		StaffID:     b.StaffID,
	}
}
