package bookingalert

import "errors"

var (
	// ErrAlertNotFound возвращается, когда алерт не найден
	ErrAlertNotFound = errors.New("bookingalert.repository: alert not found")

	// ErrStatusConflict возвращается, когда условный переход статуса не
	// сработал: алерт существует, но находится не в ожидаемом статусе
	ErrStatusConflict = errors.New("bookingalert.repository: alert is not in expected status")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("bookingalert.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("bookingalert.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("bookingalert.repository: failed to scan row")
)
