package leave

import "errors"

var (
	// ErrLeaveNotFound возвращается, когда заявка на отпуск не найдена
	ErrLeaveNotFound = errors.New("leave.repository: leave request not found")

	// ErrNotPending возвращается, когда заявка уже рассмотрена и условный
	// переход approve/deny/withdraw не сработал
	ErrNotPending = errors.New("leave.repository: leave request is not pending")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("leave.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("leave.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("leave.repository: failed to scan row")
)
