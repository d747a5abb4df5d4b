package get_available_staff

import "time"

// Request модель запроса доступного персонала на окно времени
type Request struct {
	StartTime time.Time
	EndTime   time.Time
}

// StaffMember доступный сотрудник
// WithinWorkingHours - справочный флаг: окно попадает в график работы
// сотрудника. Не фильтрует выдачу, решение остается за менеджером.
type StaffMember struct {
	ID                 int64
	Name               string
	WithinWorkingHours bool
}

// Response модель ответа со списком свободных сотрудников
// Без пагинации: рассчитано на скромные размеры штата агентства
type Response struct {
	StartTime time.Time
	EndTime   time.Time
	Staff     []StaffMember
}
