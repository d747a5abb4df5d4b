package get_available_staff

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
)

// UseCase use case подбора свободного персонала на временное окно
//
// Сотрудник считается занятым, если у него есть активное бронирование,
// пересекающееся с окном, либо одобренный отпуск, захватывающий хотя бы
// один день окна. Возвращаются только активные сотрудники с ролью staff.
type UseCase struct {
	bookingRepo BookingRepository
	leaveRepo   LeaveRepository
	userRepo    UserRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	leaveRepo LeaveRepository,
	userRepo UserRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		leaveRepo:   leaveRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Execute выполняет use case подбора свободного персонала
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableStaff: window [%s - %s]",
		req.StartTime.Format(domain.DateFormat+" "+domain.TimeFormat),
		req.EndTime.Format(domain.DateFormat+" "+domain.TimeFormat))

	// 1. Валидация окна запроса
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		uc.logger.Warn("GetAvailableStaff: startTime and endTime are required")
		return nil, fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}
	if !req.StartTime.Before(req.EndTime) {
		uc.logger.Warn("GetAvailableStaff: startTime must be before endTime")
		return nil, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	window := domain.TimeWindow{Start: req.StartTime, End: req.EndTime}

	// 2. Весь активный персонал
	staff, err := uc.userRepo.GetActiveStaff(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableStaff: failed to get active staff: %v", err)
		return nil, fmt.Errorf("%w: failed to get active staff: %v", ErrInternal, err)
	}

	// 3. Сотрудники с пересекающимися бронированиями
	bookedIDs, err := uc.bookingRepo.StaffIDsWithOverlapping(ctx, window)
	if err != nil {
		uc.logger.Error("GetAvailableStaff: failed to get booked staff ids: %v", err)
		return nil, fmt.Errorf("%w: failed to get booked staff ids: %v", ErrInternal, err)
	}

	// 4. Сотрудники в одобренном отпуске
	onLeaveIDs, err := uc.leaveRepo.StaffIDsOnApprovedLeave(ctx, window)
	if err != nil {
		uc.logger.Error("GetAvailableStaff: failed to get staff ids on leave: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff ids on leave: %v", ErrInternal, err)
	}

	busy := make(map[int64]struct{}, len(bookedIDs)+len(onLeaveIDs))
	for _, id := range bookedIDs {
		busy[id] = struct{}{}
	}
	for _, id := range onLeaveIDs {
		busy[id] = struct{}{}
	}

	// 5. Фильтруем занятых
	available := make([]StaffMember, 0, len(staff))
	for _, member := range staff {
		if _, ok := busy[member.ID]; ok {
			continue
		}
		available = append(available, StaffMember{
			ID:                 member.ID,
			Name:               member.Name,
			WithinWorkingHours: member.WorksDuring(window),
		})
	}

	uc.logger.Info("GetAvailableStaff: %d of %d staff available", len(available), len(staff))

	return &Response{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Staff:     available,
	}, nil
}
