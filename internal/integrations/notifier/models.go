package notifier

import "time"

// BookingPayload данные бронирования для писем и пушей
type BookingPayload struct {
	BookingID   int64     `json:"bookingId"`
	Title       string    `json:"title"`
	ServiceName string    `json:"serviceName"`
	StaffName   string    `json:"staffName"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	ClientID    int64     `json:"clientId"`
	StaffID     int64     `json:"staffId"`
}

// AlertPayload данные алерта открытой смены для рассылки
type AlertPayload struct {
	AlertID     int64     `json:"alertId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

// notificationRequest тело запроса к диспетчеру уведомлений
type notificationRequest struct {
	MessageID    string      `json:"messageId"` // uuid, ключ идемпотентности
	Kind         string      `json:"kind"`
	RecipientIDs []int64     `json:"recipientIds"`
	SendAsEmail  bool        `json:"sendAsEmail"`
	SendAsPush   bool        `json:"sendAsPush"`
	Payload      interface{} `json:"payload"`
}

// Виды уведомлений
const (
	kindBookingConfirmation = "booking.confirmation"
	kindBookingUpdate       = "booking.update"
	kindBookingCancellation = "booking.cancellation"
	kindAlertCreated        = "alert.created"
	kindAlertClaimed        = "alert.claimed"
	kindAlertConfirmed      = "alert.confirmed"
	kindAlertRejected       = "alert.rejected"
)

// ErrorResponse модель ошибки от диспетчера уведомлений
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
