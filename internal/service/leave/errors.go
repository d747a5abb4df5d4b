package leave

import "errors"

var (
	// ErrLeaveNotFound возвращается, когда заявка не найдена
	ErrLeaveNotFound = errors.New("leave request not found")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInsufficientNotice возвращается, когда заявка подана менее чем за
	// минимальный срок до начала отпуска
	ErrInsufficientNotice = errors.New("leave request requires advance notice")

	// ErrOverlappingLeave возвращается, когда у сотрудника уже есть
	// pending/approved заявка на пересекающиеся даты
	ErrOverlappingLeave = errors.New("overlapping leave request exists")

	// ErrNotPending возвращается при попытке рассмотреть или отозвать уже
	// рассмотренную заявку
	ErrNotPending = errors.New("leave request is not pending")

	// ErrReasonRequired возвращается, когда отказ не содержит причины
	ErrReasonRequired = errors.New("denial reason is required")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
