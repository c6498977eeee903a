package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifier client: internal error")

	// ErrDeliveryRejected возвращается, когда диспетчер уведомлений отклонил событие
	ErrDeliveryRejected = errors.New("notifier client: delivery rejected")
)

// StatusChangedEvent событие смены статуса бронирования
// Отправляется диспетчеру уведомлений после фиксации транзакции;
// доставка push/SMS - ответственность диспетчера
type StatusChangedEvent struct {
	BookingID  int64   `json:"bookingId"`
	CustomerID int64   `json:"customerId"`
	ProviderID int64   `json:"providerId"`
	Status     string  `json:"status"`
	Reason     *string `json:"reason,omitempty"`
	OccurredAt string  `json:"occurredAt"` // ISO 8601
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент диспетчера уведомлений
// Вызывается fire-and-forget: ошибки доставки логируются и никогда не
// откатывают смену статуса бронирования
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

// BookingStatusChanged отправляет событие смены статуса бронирования
func (c *Client) BookingStatusChanged(ctx context.Context, event StatusChangedEvent) error {
	url := fmt.Sprintf("%s/internal/notifications/booking-status", c.baseURL)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status code %d: %s", ErrDeliveryRejected, resp.StatusCode, string(body))
	}

	return nil
}
