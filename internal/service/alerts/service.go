package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	alertRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/bookingalert"
	userRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/user"
	"github.com/m04kA/SMC-StaffingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-StaffingService/internal/service/alerts/models"
)

// Service сервис для работы с алертами открытых смен
//
// Переходы статусов опираются на условные UPDATE репозитория: проигравший
// гонку claim получает ErrNotClaimable, а не молчаливую перезапись.
type Service struct {
	alertRepo    AlertRepository
	bookingRepo  BookingRepository
	leaveRepo    LeaveRepository
	userRepo     UserRepository
	auditRepo    AuditRepository
	notifier     NotifierClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса алертов
func NewService(
	alertRepository AlertRepository,
	bookingRepo BookingRepository,
	leaveRepo LeaveRepository,
	userRepository UserRepository,
	auditRepo AuditRepository,
	notifierClient NotifierClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		alertRepo:    alertRepository,
		bookingRepo:  bookingRepo,
		leaveRepo:    leaveRepo,
		userRepo:     userRepository,
		auditRepo:    auditRepo,
		notifier:     notifierClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает алерт по ID
// Менеджеры видят любой алерт, сотрудник - адресованный ему или забранный им
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AlertResponse, error) {
	s.logger.Info("GetByID: fetching alert id=%d for user=%d", id, userID)

	alert, err := s.alertRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, alertRepo.ErrAlertNotFound) {
			s.logger.Warn("GetByID: alert id=%d not found", id)
			return nil, ErrAlertNotFound
		}
		s.logger.Error("GetByID: repository error for alert id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !s.canViewAlert(alert, user) {
		s.logger.Warn("GetByID: access denied for user=%d to alert id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched alert id=%d", id)
	return models.FromDomainAlert(alert), nil
}

// ListAvailableForStaff получает открытые алерты, которые сотрудник может
// забрать: адресованные ему, без предыдущего отказа и без пересечений с
// его расписанием и одобренным отпуском
func (s *Service) ListAvailableForStaff(ctx context.Context, staffID int64) (*models.AlertListResponse, error) {
	s.logger.Info("ListAvailableForStaff: fetching alerts for staff=%d", staffID)

	staff, err := s.getUser(ctx, staffID)
	if err != nil {
		return nil, err
	}

	if !staff.IsStaff() || !staff.Active {
		s.logger.Warn("ListAvailableForStaff: user=%d is not active staff", staffID)
		return nil, ErrAccessDenied
	}

	open, err := s.alertRepo.ListOpen(ctx)
	if err != nil {
		s.logger.Error("ListAvailableForStaff: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAvailableForStaff - repository error: %v", ErrInternal, err)
	}

	available := make([]*domain.BookingAlert, 0, len(open))
	for _, alert := range open {
		if !alert.TargetsArea(staff.LocationArea) {
			continue
		}
		if alert.WasRejectedFor(staffID) {
			continue
		}
		busy, err := s.staffIsBusy(ctx, staffID, domain.TimeWindow{Start: alert.StartTime, End: alert.EndTime})
		if err != nil {
			return nil, err
		}
		if busy {
			continue
		}
		available = append(available, alert)
	}

	s.logger.Info("ListAvailableForStaff: %d of %d open alerts available for staff=%d",
		len(available), len(open), staffID)
	return models.FromDomainAlertList(available), nil
}

// Claim забирает открытую смену за сотрудником
// Переход open -> claimed условный: проигравший гонку получает ErrNotClaimable
func (s *Service) Claim(ctx context.Context, alertID int64, req *models.ClaimAlertRequest) (*models.AlertResponse, error) {
	s.logger.Info("Claim: staff=%d claiming alert id=%d", req.StaffID, alertID)

	staff, err := s.getUser(ctx, req.StaffID)
	if err != nil {
		return nil, err
	}

	if !domain.RoleCan(staff.Role, domain.CapAlertClaim) || !staff.Active {
		s.logger.Warn("Claim: user=%d role=%s cannot claim alerts", staff.ID, staff.Role)
		return nil, ErrAccessDenied
	}

	alert, err := s.alertRepo.GetByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, alertRepo.ErrAlertNotFound) {
			s.logger.Warn("Claim: alert id=%d not found", alertID)
			return nil, ErrAlertNotFound
		}
		s.logger.Error("Claim: repository error for alert id=%d: %v", alertID, err)
		return nil, fmt.Errorf("%w: Claim - repository error: %v", ErrInternal, err)
	}

	// Claim принимается только с открытого алерта, без очереди ожидания
	if !alert.IsClaimable() {
		s.logger.Warn("Claim: alert id=%d is in status %s, cannot claim", alertID, alert.Status)
		return nil, ErrNotClaimable
	}

	if !alert.TargetsArea(staff.LocationArea) {
		s.logger.Warn("Claim: alert id=%d is not targeted at staff=%d", alertID, req.StaffID)
		return nil, ErrNotTargeted
	}

	if alert.WasRejectedFor(req.StaffID) {
		s.logger.Warn("Claim: staff=%d was already rejected for alert id=%d", req.StaffID, alertID)
		return nil, ErrAlreadyRejected
	}

	busy, err := s.staffIsBusy(ctx, req.StaffID, domain.TimeWindow{Start: alert.StartTime, End: alert.EndTime})
	if err != nil {
		return nil, err
	}
	if busy {
		s.logger.Warn("Claim: staff=%d has a conflict for alert id=%d", req.StaffID, alertID)
		return nil, ErrStaffConflict
	}

	claimedAt := s.timeProvider.Now()
	if err := s.alertRepo.Claim(ctx, alertID, req.StaffID, claimedAt); err != nil {
		if errors.Is(err, alertRepo.ErrAlertNotFound) {
			return nil, ErrAlertNotFound
		}
		if errors.Is(err, alertRepo.ErrStatusConflict) {
			// Кто-то забрал смену между чтением и UPDATE
			s.logger.Warn("Claim: alert id=%d was claimed concurrently", alertID)
			return nil, ErrNotClaimable
		}
		s.logger.Error("Claim: repository error for alert id=%d: %v", alertID, err)
		return nil, fmt.Errorf("%w: Claim - repository error: %v", ErrInternal, err)
	}

	alert.Status = domain.AlertClaimed
	alert.ClaimedBy = &req.StaffID
	alert.ClaimedAt = &claimedAt

	s.logger.Info("Claim: staff=%d successfully claimed alert id=%d", req.StaffID, alertID)

	// Побочные эффекты best-effort
	s.recordAudit(ctx, domain.AuditAlertClaimed, alert, req.StaffID,
		fmt.Sprintf("Shift claimed by %s", staff.Name))
	if err := s.notifier.SendAlertClaimed(ctx, alertPayload(alert), alert.ManagerID); err != nil {
		s.logger.Error("Claim: failed to notify manager=%d for alert id=%d: %v", alert.ManagerID, alertID, err)
	}

	return models.FromDomainAlert(alert), nil
}

// Reject отклоняет claim сотрудника и возвращает алерт в open
// Причина обязательна, отклоненный сотрудник больше не может забрать алерт
// Возврат в open и запись отклонения атомарны: обрыв между ними оставил бы
// алерт открытым без блокировки отклоненного сотрудника
func (s *Service) Reject(ctx context.Context, alertID int64, req *models.RejectAlertRequest) (*models.AlertResponse, error) {
	s.logger.Info("Reject: manager=%d rejecting claim on alert id=%d", req.ManagerID, alertID)

	if req.Reason == "" {
		s.logger.Warn("Reject: empty reason for alert id=%d", alertID)
		return nil, ErrReasonRequired
	}

	manager, err := s.getUser(ctx, req.ManagerID)
	if err != nil {
		return nil, err
	}

	if !domain.RoleCan(manager.Role, domain.CapAlertReject) {
		s.logger.Warn("Reject: user=%d role=%s cannot reject claims", manager.ID, manager.Role)
		return nil, ErrAccessDenied
	}

	var alert *domain.BookingAlert
	var rejection domain.AlertRejection

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		alert, err = s.alertRepo.GetByID(txCtx, alertID)
		if err != nil {
			if errors.Is(err, alertRepo.ErrAlertNotFound) {
				s.logger.Warn("Reject: alert id=%d not found", alertID)
				return ErrAlertNotFound
			}
			s.logger.Error("Reject: repository error for alert id=%d: %v", alertID, err)
			return fmt.Errorf("%w: Reject - repository error: %v", ErrInternal, err)
		}

		if !alert.AwaitingConfirmation() || alert.ClaimedBy == nil {
			s.logger.Warn("Reject: alert id=%d is in status %s, nothing to reject", alertID, alert.Status)
			return ErrNotAwaitingConfirmation
		}

		rejection = domain.AlertRejection{
			StaffID:    *alert.ClaimedBy,
			RejectedAt: s.timeProvider.Now(),
			Reason:     req.Reason,
		}

		if err := s.alertRepo.Reject(txCtx, alertID, rejection); err != nil {
			if errors.Is(err, alertRepo.ErrAlertNotFound) {
				return ErrAlertNotFound
			}
			if errors.Is(err, alertRepo.ErrStatusConflict) {
				return ErrNotAwaitingConfirmation
			}
			s.logger.Error("Reject: repository error for alert id=%d: %v", alertID, err)
			return fmt.Errorf("%w: Reject - repository error: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	rejectedStaffID := rejection.StaffID
	alert.Status = domain.AlertOpen
	alert.ClaimedBy = nil
	alert.ClaimedAt = nil
	alert.RejectedStaff = append(alert.RejectedStaff, rejection)

	s.logger.Info("Reject: claim of staff=%d on alert id=%d rejected, alert reopened", rejectedStaffID, alertID)

	s.recordAudit(ctx, domain.AuditAlertRejected, alert, req.ManagerID,
		fmt.Sprintf("Claim of staff %d rejected: %s", rejectedStaffID, req.Reason))
	if err := s.notifier.SendAlertRejected(ctx, alertPayload(alert), rejectedStaffID, req.Reason); err != nil {
		s.logger.Error("Reject: failed to notify staff=%d for alert id=%d: %v", rejectedStaffID, alertID, err)
	}

	return models.FromDomainAlert(alert), nil
}

// Cancel отменяет алерт (терминальный переход)
// Доступно менеджерам из любого нетерминального статуса
func (s *Service) Cancel(ctx context.Context, alertID int64, req *models.CancelAlertRequest) error {
	s.logger.Info("Cancel: user=%d cancelling alert id=%d", req.UserID, alertID)

	user, err := s.getUser(ctx, req.UserID)
	if err != nil {
		return err
	}

	if !domain.RoleCan(user.Role, domain.CapAlertCancel) {
		s.logger.Warn("Cancel: user=%d role=%s cannot cancel alerts", user.ID, user.Role)
		return ErrAccessDenied
	}

	alert, err := s.alertRepo.GetByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, alertRepo.ErrAlertNotFound) {
			s.logger.Warn("Cancel: alert id=%d not found", alertID)
			return ErrAlertNotFound
		}
		s.logger.Error("Cancel: repository error for alert id=%d: %v", alertID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if err := s.alertRepo.Cancel(ctx, alertID); err != nil {
		if errors.Is(err, alertRepo.ErrAlertNotFound) {
			return ErrAlertNotFound
		}
		if errors.Is(err, alertRepo.ErrStatusConflict) {
			s.logger.Warn("Cancel: alert id=%d is terminal, cannot cancel", alertID)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for alert id=%d: %v", alertID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	alert.Status = domain.AlertCancelled
	s.logger.Info("Cancel: successfully cancelled alert id=%d", alertID)

	s.recordAudit(ctx, domain.AuditAlertCancelled, alert, req.UserID, "Alert cancelled")
	return nil
}

// SweepStuckClaims напоминает менеджерам об алертах, застрявших в claimed
// без подтверждения дольше порога. Возвращает количество найденных алертов.
// Вызывается фоновым тикером из main.
func (s *Service) SweepStuckClaims(ctx context.Context, claimedBefore time.Time) (int, error) {
	stuck, err := s.alertRepo.ListStuckClaimed(ctx, claimedBefore)
	if err != nil {
		s.logger.Error("SweepStuckClaims: repository error: %v", err)
		return 0, fmt.Errorf("%w: SweepStuckClaims - repository error: %v", ErrInternal, err)
	}

	for _, alert := range stuck {
		s.logger.Warn("SweepStuckClaims: alert id=%d claimed at %s still awaiting confirmation",
			alert.ID, alert.ClaimedAt.Format(domain.DateFormat+" "+domain.TimeFormat))
		if err := s.notifier.SendAlertClaimed(ctx, alertPayload(alert), alert.ManagerID); err != nil {
			s.logger.Error("SweepStuckClaims: failed to remind manager=%d for alert id=%d: %v",
				alert.ManagerID, alert.ID, err)
		}
	}

	return len(stuck), nil
}

// Вспомогательные методы

// canViewAlert проверяет доступ к алерту: менеджеры видят любой, сотрудник -
// адресованный ему или забранный им, клиент - свой
func (s *Service) canViewAlert(alert *domain.BookingAlert, user *domain.User) bool {
	if user.Role == domain.RoleManager || user.Role == domain.RoleSuperuser {
		return true
	}
	if user.ID == alert.ClientID {
		return true
	}
	if user.IsStaff() {
		if alert.ClaimedBy != nil && *alert.ClaimedBy == user.ID {
			return true
		}
		return alert.TargetsArea(user.LocationArea)
	}
	return false
}

// staffIsBusy проверяет пересечение окна с бронированиями и одобренным
// отпуском сотрудника
func (s *Service) staffIsBusy(ctx context.Context, staffID int64, window domain.TimeWindow) (bool, error) {
	overlapping, err := s.bookingRepo.GetOverlapping(ctx, staffID, window, nil)
	if err != nil {
		s.logger.Error("staffIsBusy: failed to get overlapping bookings for staff=%d: %v", staffID, err)
		return false, fmt.Errorf("%w: staffIsBusy - repository error: %v", ErrInternal, err)
	}
	if len(overlapping) > 0 {
		return true, nil
	}

	onLeave, err := s.leaveRepo.StaffIDsOnApprovedLeave(ctx, window)
	if err != nil {
		s.logger.Error("staffIsBusy: failed to get staff on leave: %v", err)
		return false, fmt.Errorf("%w: staffIsBusy - repository error: %v", ErrInternal, err)
	}
	for _, id := range onLeave {
		if id == staffID {
			return true, nil
		}
	}

	return false, nil
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

func (s *Service) recordAudit(ctx context.Context, action string, alert *domain.BookingAlert, performedBy int64, description string) {
	entry := &domain.AuditEntry{
		Action:      action,
		EntityType:  "booking_alert",
		EntityID:    alert.ID,
		PerformedBy: performedBy,
		Title:       alert.Title,
		Description: description,
		Details: map[string]interface{}{
			"startTime": alert.StartTime,
			"endTime":   alert.EndTime,
			"status":    alert.Status,
			"clientId":  alert.ClientID,
		},
	}
	if err := s.auditRepo.Record(ctx, entry); err != nil {
		s.logger.Error("recordAudit: failed to record %s for alert id=%d: %v", action, alert.ID, err)
	}
}

func alertPayload(a *domain.BookingAlert) notifier.AlertPayload {
	return notifier.AlertPayload{
		AlertID:     a.ID,
		Title:       a.Title,
		Description: a.Description,
		Address:     a.Location.Address,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
	}
}
