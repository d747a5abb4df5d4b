package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	CreatedBy int64  // ID пользователя, выполняющего операцию
	ClientID  int64  // ID клиента
	StaffID   int64  // ID сотрудника
	ServiceID int64  // ID услуги
	ManagerID *int64 // ID менеджера (опционально)

	Title     string
	StartTime time.Time
	EndTime   time.Time
	Notes     *string

	// EnforceServiceLimit включает проверку "одна услуга на сотрудника в день"
	EnforceServiceLimit bool
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID        int64
	ClientID  int64
	StaffID   int64
	ServiceID int64
	ManagerID *int64

	Title     string
	StartTime time.Time
	EndTime   time.Time
	Status    string
	Notes     *string

	// Денормализованные данные
	ServiceName string
	StaffName   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
