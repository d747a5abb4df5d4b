package alerts

import "errors"

var (
	// ErrAlertNotFound возвращается, когда алерт не найден
	ErrAlertNotFound = errors.New("alert not found")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrNotClaimable возвращается при попытке забрать алерт, который уже
	// забран, подтвержден или отменен
	ErrNotClaimable = errors.New("alert is not claimable")

	// ErrNotAwaitingConfirmation возвращается, когда алерт не в статусе
	// claimed/pending_confirmation
	ErrNotAwaitingConfirmation = errors.New("alert is not awaiting confirmation")

	// ErrAlreadyRejected возвращается, когда менеджер уже отклонял claim
	// этого сотрудника по данному алерту
	ErrAlreadyRejected = errors.New("staff claim was already rejected for this alert")

	// ErrNotTargeted возвращается, когда алерт не адресован сотруднику
	// (таргетинг по location area)
	ErrNotTargeted = errors.New("alert is not targeted at this staff member")

	// ErrStaffConflict возвращается, когда смена пересекается с расписанием
	// или одобренным отпуском сотрудника
	ErrStaffConflict = errors.New("staff has a conflicting booking or leave")

	// ErrCannotCancel возвращается при попытке отменить терминальный алерт
	ErrCannotCancel = errors.New("alert cannot be cancelled")

	// ErrReasonRequired возвращается, когда отклонение не содержит причины
	ErrReasonRequired = errors.New("rejection reason is required")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
