package hraccess

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент менеджера доступа к HR документам
// Открывает клиенту временное окно доступа к документам сотрудника
// (DBS, квалификации) на период бронирования
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента HR доступа
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// accessRequest тело запроса на создание окна доступа
type accessRequest struct {
	BookingID   int64 `json:"bookingId"`
	WindowHours int   `json:"windowHours"`
}

// CreateAccessForBooking создает или продлевает окно доступа к HR
// документам, привязанное к бронированию. Best-effort: ошибка логируется
// вызывающей стороной и не откатывает бронирование.
func (c *Client) CreateAccessForBooking(ctx context.Context, bookingID int64, windowHours int) error {
	body, err := json.Marshal(accessRequest{
		BookingID:   bookingID,
		WindowHours: windowHours,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/document-access", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("hraccess unavailable for booking_id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: booking_id=%d, error=%v", ErrServiceDegraded, bookingID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		c.log.Info("document access window created: booking_id=%d window_hours=%d", bookingID, windowHours)
		return nil
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}
