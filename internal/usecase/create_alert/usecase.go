package create_alert

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	svcRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/svc"
	userRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/user"
	"github.com/m04kA/SMC-StaffingService/internal/integrations/notifier"
)

// UseCase use case создания алертов открытых смен
//
// Многодневный запрос разворачивается в отдельный алерт на каждый день.
// После создания выполняется рассылка таргетированным сотрудникам: всем
// активным либо только тем, чей location_area попал в выборку.
type UseCase struct {
	alertRepo   AlertRepository
	userRepo    UserRepository
	serviceRepo ServiceRepository
	auditRepo   AuditRepository
	notifier    NotifierClient
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	alertRepo AlertRepository,
	userRepo UserRepository,
	serviceRepo ServiceRepository,
	auditRepo AuditRepository,
	notifierClient NotifierClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		alertRepo:   alertRepo,
		userRepo:    userRepo,
		serviceRepo: serviceRepo,
		auditRepo:   auditRepo,
		notifier:    notifierClient,
		logger:      logger,
	}
}

// Execute выполняет use case создания алертов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAlert: creator=%d, service=%d, client=%d, days=%d",
		req.CreatedBy, req.ServiceID, req.ClientID, len(req.Days))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAlert: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права создателя
	creator, err := uc.userRepo.GetByID(ctx, req.CreatedBy)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("CreateAlert: creator id=%d not found", req.CreatedBy)
			return nil, ErrAccessDenied
		}
		uc.logger.Error("CreateAlert: failed to get creator id=%d: %v", req.CreatedBy, err)
		return nil, fmt.Errorf("%w: failed to get creator: %v", ErrInternal, err)
	}

	if !domain.RoleCan(creator.Role, domain.CapAlertCreate) {
		uc.logger.Warn("CreateAlert: user id=%d role=%s cannot create alerts", creator.ID, creator.Role)
		return nil, ErrAccessDenied
	}

	// 3. Услуга должна существовать и быть активной
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, svcRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAlert: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAlert: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("CreateAlert: service id=%d is inactive", service.ID)
		return nil, ErrServiceNotFound
	}

	// 4. Клиент должен существовать
	if _, err := uc.userRepo.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("CreateAlert: client id=%d not found", req.ClientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateAlert: failed to get client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}

	// 5. Создаем по алерту на каждый день
	created := make([]*domain.BookingAlert, 0, len(req.Days))
	for _, day := range req.Days {
		alert := &domain.BookingAlert{
			Title:                 req.Title,
			Description:           req.Description,
			ServiceID:             req.ServiceID,
			ClientID:              req.ClientID,
			ManagerID:             req.CreatedBy,
			Location:              req.Location,
			StartTime:             day.StartTime,
			EndTime:               day.EndTime,
			SendToAll:             req.SendToAll,
			SelectedLocationAreas: req.SelectedLocationAreas,
			SendAsNotification:    req.SendAsNotification,
			SendAsEmail:           req.SendAsEmail,
		}

		saved, err := uc.alertRepo.Create(ctx, alert)
		if err != nil {
			uc.logger.Error("CreateAlert: failed to create alert for day %s: %v",
				day.StartTime.Format(domain.DateFormat), err)
			// Уже созданные алерты остаются: менеджер видит их в списке
			// и может отменить вручную
			return nil, fmt.Errorf("%w: failed to create alert: %v", ErrInternal, err)
		}

		uc.logger.Info("CreateAlert: created alert id=%d [%s - %s]", saved.ID,
			saved.StartTime.Format(domain.DateFormat+" "+domain.TimeFormat),
			saved.EndTime.Format(domain.DateFormat+" "+domain.TimeFormat))
		created = append(created, saved)
	}

	// 6. Побочные эффекты: аудит и рассылка (best-effort)
	recipients := uc.eligibleRecipients(ctx, req)
	for _, alert := range created {
		uc.recordSideEffects(ctx, alert, recipients)
	}

	resp := &Response{Alerts: make([]CreatedAlert, 0, len(created))}
	for _, alert := range created {
		resp.Alerts = append(resp.Alerts, CreatedAlert{
			ID:        alert.ID,
			StartTime: alert.StartTime,
			EndTime:   alert.EndTime,
			Status:    string(alert.Status),
		})
	}

	return resp, nil
}

// eligibleRecipients отбирает активных сотрудников по таргетингу алерта
func (uc *UseCase) eligibleRecipients(ctx context.Context, req *Request) []int64 {
	staff, err := uc.userRepo.GetActiveStaff(ctx)
	if err != nil {
		uc.logger.Error("CreateAlert: failed to get active staff for dispatch: %v", err)
		return nil
	}

	selected := make(map[string]struct{}, len(req.SelectedLocationAreas))
	for _, area := range req.SelectedLocationAreas {
		selected[area] = struct{}{}
	}

	recipients := make([]int64, 0, len(staff))
	for _, member := range staff {
		if !req.SendToAll {
			if member.LocationArea == nil {
				continue
			}
			if _, ok := selected[*member.LocationArea]; !ok {
				continue
			}
		}
		recipients = append(recipients, member.ID)
	}

	return recipients
}

func (uc *UseCase) recordSideEffects(ctx context.Context, alert *domain.BookingAlert, recipients []int64) {
	entry := &domain.AuditEntry{
		Action:      domain.AuditAlertCreated,
		EntityType:  "booking_alert",
		EntityID:    alert.ID,
		PerformedBy: alert.ManagerID,
		Title:       alert.Title,
		Description: fmt.Sprintf("Open shift alert created at %q", alert.Location.Address),
		Details: map[string]interface{}{
			"startTime": alert.StartTime,
			"endTime":   alert.EndTime,
			"serviceId": alert.ServiceID,
			"clientId":  alert.ClientID,
			"sendToAll": alert.SendToAll,
		},
	}
	if err := uc.auditRepo.Record(ctx, entry); err != nil {
		uc.logger.Error("CreateAlert: failed to record audit entry for alert id=%d: %v", alert.ID, err)
	}

	if !alert.SendAsNotification && !alert.SendAsEmail {
		return
	}

	payload := notifier.AlertPayload{
		AlertID:     alert.ID,
		Title:       alert.Title,
		Description: alert.Description,
		Address:     alert.Location.Address,
		StartTime:   alert.StartTime,
		EndTime:     alert.EndTime,
	}

	if err := uc.notifier.SendAlertCreated(ctx, payload, recipients, alert.SendAsEmail, alert.SendAsNotification); err != nil {
		uc.logger.Error("CreateAlert: failed to dispatch alert id=%d: %v", alert.ID, err)
		return
	}

	if alert.SendAsEmail && len(recipients) > 0 {
		if err := uc.alertRepo.MarkEmailsSent(ctx, alert.ID); err != nil {
			uc.logger.Error("CreateAlert: failed to mark emails sent for alert id=%d: %v", alert.ID, err)
		}
	}
}
