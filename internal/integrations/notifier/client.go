package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент диспетчера уведомлений (email + in-app push)
//
// Все методы best-effort: при недоступности диспетчера возвращается
// ErrServiceDegraded, который вызывающая сторона логирует и глотает.
// Основная операция (создание бронирования, переход алерта) никогда не
// откатывается из-за ошибки уведомления.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента диспетчера уведомлений
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendBookingConfirmation отправляет клиенту подтверждение бронирования
func (c *Client) SendBookingConfirmation(ctx context.Context, booking BookingPayload) error {
	return c.send(ctx, notificationRequest{
		MessageID:    uuid.NewString(),
		Kind:         kindBookingConfirmation,
		RecipientIDs: []int64{booking.ClientID},
		SendAsEmail:  true,
		Payload:      booking,
	})
}

// SendBookingUpdate уведомляет клиента и сотрудника об изменении бронирования
func (c *Client) SendBookingUpdate(ctx context.Context, booking BookingPayload) error {
	return c.send(ctx, notificationRequest{
		MessageID:    uuid.NewString(),
		Kind:         kindBookingUpdate,
		RecipientIDs: []int64{booking.ClientID, booking.StaffID},
		SendAsEmail:  true,
		SendAsPush:   true,
		Payload:      booking,
	})
}

// SendBookingCancellation уведомляет клиента и сотрудника об отмене
func (c *Client) SendBookingCancellation(ctx context.Context, booking BookingPayload) error {
	return c.send(ctx, notificationRequest{
		MessageID:    uuid.NewString(),
		Kind:         kindBookingCancellation,
		RecipientIDs: []int64{booking.ClientID, booking.StaffID},
		SendAsEmail:  true,
		SendAsPush:   true,
		Payload:      booking,
	})
}

// SendAlertCreated рассылает алерт открытой смены отобранным сотрудникам
func (c *Client) SendAlertCreated(ctx context.Context, alert AlertPayload, recipientIDs []int64, asEmail, asPush bool) error {
	if len(recipientIDs) == 0 {
		c.log.Info("SendAlertCreated: no eligible recipients for alert id=%d, skipping", alert.AlertID)
		return nil
	}

	return c.send(ctx, notificationRequest{
		MessageID:    uuid.NewString(),
		Kind:         kindAlertCreated,
		RecipientIDs: recipientIDs,
		SendAsEmail:  asEmail,
		SendAsPush:   asPush,
		Payload:      alert,
	})
}

// SendAlertClaimed уведомляет менеджера о том, что смену забрали
func (c *Client) SendAlertClaimed(ctx context.Context, alert AlertPayload, managerID int64) error {
	return c.send(ctx, notificationRequest{
		MessageID:    uuid.NewString(),
		Kind:         kindAlertClaimed,
		RecipientIDs: []int64{managerID},
		SendAsPush:   true,
		Payload:      alert,
	})
}

// SendAlertConfirmed уведомляет сотрудника о подтверждении его claim
func (c *Client) SendAlertConfirmed(ctx context.Context, alert AlertPayload, staffID int64) error {
	return c.send(ctx, notificationRequest{
		MessageID:    uuid.NewString(),
		Kind:         kindAlertConfirmed,
		RecipientIDs: []int64{staffID},
		SendAsEmail:  true,
		SendAsPush:   true,
		Payload:      alert,
	})
}

// SendAlertRejected уведомляет сотрудника об отклонении его claim
func (c *Client) SendAlertRejected(ctx context.Context, alert AlertPayload, staffID int64, reason string) error {
	return c.send(ctx, notificationRequest{
		MessageID:    uuid.NewString(),
		Kind:         kindAlertRejected,
		RecipientIDs: []int64{staffID},
		SendAsEmail:  true,
		SendAsPush:   true,
		Payload: struct {
			AlertPayload
			Reason string `json:"reason"`
		}{alert, reason},
	})
}

func (c *Client) send(ctx context.Context, notification notificationRequest) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notification: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Недоступность диспетчера не критична - graceful degradation
		c.log.Error("notifier unavailable, message_id=%s kind=%s: %v", notification.MessageID, notification.Kind, err)
		return fmt.Errorf("%w: kind=%s, error=%v", ErrServiceDegraded, notification.Kind, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		c.log.Info("notification dispatched: message_id=%s kind=%s recipients=%d",
			notification.MessageID, notification.Kind, len(notification.RecipientIDs))
		return nil
	default:
		respBody, _ := io.ReadAll(resp.Body)
		c.log.Error("notifier returned status %d for message_id=%s: %s",
			resp.StatusCode, notification.MessageID, string(respBody))
		return fmt.Errorf("%w: unexpected status code %d", ErrInvalidResponse, resp.StatusCode)
	}
}
