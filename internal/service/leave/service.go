package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	leaveRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/leave"
	userRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/user"
	"github.com/m04kA/SMC-StaffingService/internal/service/leave/models"
)

// Service сервис для работы с заявками на отпуск
type Service struct {
	leaveRepo    LeaveRepository
	userRepo     UserRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса заявок на отпуск
func NewService(
	leaveRepository LeaveRepository,
	userRepository UserRepository,
	logger Logger,
) *Service {
	return &Service{
		leaveRepo:    leaveRepository,
		userRepo:     userRepository,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Create создает заявку на отпуск
// Заявка подается минимум за MinLeaveNoticeDays дней до начала и не может
// пересекаться с другой pending/approved заявкой сотрудника
func (s *Service) Create(ctx context.Context, req *models.CreateLeaveRequest) (*models.LeaveResponse, error) {
	s.logger.Info("Create: staff=%d requesting leave [%s - %s]", req.StaffID,
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	if err := validateCreateRequest(req); err != nil {
		s.logger.Warn("Create: validation failed for staff=%d: %v", req.StaffID, err)
		return nil, err
	}

	staff, err := s.getUser(ctx, req.StaffID)
	if err != nil {
		return nil, err
	}

	if !domain.RoleCan(staff.Role, domain.CapLeaveRequest) || !staff.Active {
		s.logger.Warn("Create: user=%d role=%s cannot request leave", staff.ID, staff.Role)
		return nil, ErrAccessDenied
	}

	// Минимальный срок уведомления
	notice := req.StartDate.Sub(s.timeProvider.Now())
	if notice < domain.MinLeaveNoticeDays*24*time.Hour {
		s.logger.Warn("Create: staff=%d gave insufficient notice for leave starting %s",
			req.StaffID, req.StartDate.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: at least %d days", ErrInsufficientNotice, domain.MinLeaveNoticeDays)
	}

	// Пересечение с другими заявками (pending блокирует наравне с approved)
	overlapping, err := s.leaveRepo.GetBlockingOverlapping(ctx, req.StaffID, req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Error("Create: failed to check overlapping leave for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}
	if len(overlapping) > 0 {
		s.logger.Warn("Create: staff=%d has overlapping leave request id=%d", req.StaffID, overlapping[0].ID)
		return nil, ErrOverlappingLeave
	}

	created, err := s.leaveRepo.Create(ctx, &domain.LeaveRequest{
		StaffID:   req.StaffID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	if err != nil {
		s.logger.Error("Create: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created leave request id=%d for staff=%d", created.ID, req.StaffID)
	return models.FromDomainLeave(created), nil
}

// GetStaffRequests получает заявки сотрудника
// Доступно самому сотруднику и ролям с правом рассмотрения заявок
func (s *Service) GetStaffRequests(ctx context.Context, staffID int64, requesterID int64) (*models.LeaveListResponse, error) {
	s.logger.Info("GetStaffRequests: fetching leave requests for staff=%d, requester=%d", staffID, requesterID)

	if requesterID != staffID {
		requester, err := s.getUser(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		if !domain.RoleCan(requester.Role, domain.CapLeaveReview) {
			s.logger.Warn("GetStaffRequests: access denied for user=%d to staff=%d requests", requesterID, staffID)
			return nil, ErrAccessDenied
		}
	}

	requests, err := s.leaveRepo.GetByStaff(ctx, staffID)
	if err != nil {
		s.logger.Error("GetStaffRequests: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetStaffRequests - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStaffRequests: successfully fetched %d requests for staff=%d", len(requests), staffID)
	return models.FromDomainLeaveList(requests), nil
}

// Review рассматривает pending заявку: одобряет или отклоняет
// Отказ требует причины. Повторное рассмотрение возвращает ErrNotPending.
func (s *Service) Review(ctx context.Context, leaveID int64, req *models.ReviewLeaveRequest) (*models.LeaveResponse, error) {
	s.logger.Info("Review: reviewer=%d reviewing leave request id=%d, approve=%t",
		req.ReviewerID, leaveID, req.Approve)

	reviewer, err := s.getUser(ctx, req.ReviewerID)
	if err != nil {
		return nil, err
	}

	if !domain.RoleCan(reviewer.Role, domain.CapLeaveReview) {
		s.logger.Warn("Review: user=%d role=%s cannot review leave requests", reviewer.ID, reviewer.Role)
		return nil, ErrAccessDenied
	}

	status := domain.LeaveApproved
	var denialReason *string
	if !req.Approve {
		if req.DenialReason == nil || *req.DenialReason == "" {
			s.logger.Warn("Review: denial of leave request id=%d requires a reason", leaveID)
			return nil, ErrReasonRequired
		}
		status = domain.LeaveDenied
		denialReason = req.DenialReason
	}

	if err := s.leaveRepo.Review(ctx, leaveID, status, req.ReviewerID, denialReason); err != nil {
		if errors.Is(err, leaveRepo.ErrLeaveNotFound) {
			s.logger.Warn("Review: leave request id=%d not found", leaveID)
			return nil, ErrLeaveNotFound
		}
		if errors.Is(err, leaveRepo.ErrNotPending) {
			s.logger.Warn("Review: leave request id=%d is not pending", leaveID)
			return nil, ErrNotPending
		}
		s.logger.Error("Review: repository error for leave request id=%d: %v", leaveID, err)
		return nil, fmt.Errorf("%w: Review - repository error: %v", ErrInternal, err)
	}

	reviewed, err := s.leaveRepo.GetByID(ctx, leaveID)
	if err != nil {
		s.logger.Error("Review: failed to reload leave request id=%d: %v", leaveID, err)
		return nil, fmt.Errorf("%w: Review - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Review: leave request id=%d reviewed with status=%s", leaveID, status)
	return models.FromDomainLeave(reviewed), nil
}

// Withdraw отзывает pending заявку
// Доступно только подавшему её сотруднику
func (s *Service) Withdraw(ctx context.Context, leaveID int64, staffID int64) error {
	s.logger.Info("Withdraw: staff=%d withdrawing leave request id=%d", staffID, leaveID)

	request, err := s.leaveRepo.GetByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, leaveRepo.ErrLeaveNotFound) {
			s.logger.Warn("Withdraw: leave request id=%d not found", leaveID)
			return ErrLeaveNotFound
		}
		s.logger.Error("Withdraw: repository error for leave request id=%d: %v", leaveID, err)
		return fmt.Errorf("%w: Withdraw - repository error: %v", ErrInternal, err)
	}

	if request.StaffID != staffID {
		s.logger.Warn("Withdraw: access denied for staff=%d to leave request id=%d", staffID, leaveID)
		return ErrAccessDenied
	}

	if err := s.leaveRepo.DeletePending(ctx, leaveID); err != nil {
		if errors.Is(err, leaveRepo.ErrLeaveNotFound) {
			return ErrLeaveNotFound
		}
		if errors.Is(err, leaveRepo.ErrNotPending) {
			s.logger.Warn("Withdraw: leave request id=%d is not pending", leaveID)
			return ErrNotPending
		}
		s.logger.Error("Withdraw: repository error for leave request id=%d: %v", leaveID, err)
		return fmt.Errorf("%w: Withdraw - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Withdraw: successfully withdrew leave request id=%d", leaveID)
	return nil
}

// Вспомогательные методы

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

func validateCreateRequest(req *models.CreateLeaveRequest) error {
	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}
	if req.Reason == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	return nil
}
