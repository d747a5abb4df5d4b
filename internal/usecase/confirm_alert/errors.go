package confirm_alert

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_alert: invalid input data")

	// ErrAccessDenied возвращается, когда роль не может подтверждать claim
	ErrAccessDenied = errors.New("confirm_alert: access denied")

	// ErrAlertNotFound возвращается, если алерт не найден
	ErrAlertNotFound = errors.New("confirm_alert: alert not found")

	// ErrNotAwaitingConfirmation возвращается, если алерт не в статусе
	// claimed/pending_confirmation (не забран, уже подтвержден или отменен)
	ErrNotAwaitingConfirmation = errors.New("confirm_alert: alert is not awaiting confirmation")

	// ErrStaffConflict возвращается, если у забравшего смену сотрудника
	// к моменту подтверждения появилось пересекающееся бронирование
	ErrStaffConflict = errors.New("confirm_alert: staff has a conflicting booking")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_alert: internal error")
)
