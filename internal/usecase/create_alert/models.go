package create_alert

import (
	"time"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
)

// Day одно окно смены в многодневном запросе
type Day struct {
	StartTime time.Time
	EndTime   time.Time
}

// Request модель запроса создания алертов открытых смен
//
// Многодневный запрос раскрывается в отдельный алерт на каждый день:
// сотрудники забирают и подтверждают каждую смену независимо.
type Request struct {
	CreatedBy   int64
	Title       string
	Description string
	ServiceID   int64
	ClientID    int64
	Location    domain.Location
	Days        []Day

	SendToAll             bool
	SelectedLocationAreas []string

	SendAsNotification bool
	SendAsEmail        bool
}

// CreatedAlert созданный алерт одного дня
type CreatedAlert struct {
	ID        int64
	StartTime time.Time
	EndTime   time.Time
	Status    string
}

// Response модель ответа со списком созданных алертов
type Response struct {
	Alerts []CreatedAlert
}
