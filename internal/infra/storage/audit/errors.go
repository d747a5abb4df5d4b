package audit

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("audit.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("audit.repository: failed to execute query")

	// ErrMarshalDetails возвращается при ошибке сериализации деталей записи
	ErrMarshalDetails = errors.New("audit.repository: failed to marshal details")
)
