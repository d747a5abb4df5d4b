package create_alert

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_alert: invalid input data")

	// ErrAccessDenied возвращается, когда роль не может создавать алерты
	ErrAccessDenied = errors.New("create_alert: access denied")

	// ErrServiceNotFound возвращается, если услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_alert: service not found")

	// ErrClientNotFound возвращается, если клиент не найден
	ErrClientNotFound = errors.New("create_alert: client not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_alert: internal error")
)
