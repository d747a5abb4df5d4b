package confirm_alert

import "time"

// Request модель запроса подтверждения claim алерта менеджером
type Request struct {
	AlertID     int64
	ConfirmedBy int64
}

// Response модель ответа: подтвержденный алерт и созданное бронирование
type Response struct {
	AlertID     int64
	AlertStatus string
	BookingID   int64
	StaffID     int64
	StartTime   time.Time
	EndTime     time.Time
}
