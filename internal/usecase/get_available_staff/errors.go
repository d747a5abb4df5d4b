package get_available_staff

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном окне запроса
	// (отсутствующие или неупорядоченные границы)
	ErrInvalidInput = errors.New("get_available_staff: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_staff: internal error")
)
