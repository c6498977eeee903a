package customerdirectory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("customerdirectory client: customer not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("customerdirectory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("customerdirectory client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что каталог клиентов недоступен и отображаемые данные недоступны
	ErrServiceDegraded = errors.New("customerdirectory unavailable: graceful degradation applied")
)

// Customer профиль клиента из каталога
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с каталогом клиентов
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога клиентов
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetCustomer получает профиль клиента по ID
func (c *Client) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	url := fmt.Sprintf("%s/internal/customers/%d", c.baseURL, customerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrCustomerNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var customer Customer
	if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &customer, nil
}

// GetCustomerWithGracefulDegradation получает профиль клиента с graceful degradation
// Денормализованные имя и телефон нужны только для отображения, поэтому при
// недоступности каталога бронирование не блокируется: возвращается ErrServiceDegraded
func (c *Client) GetCustomerWithGracefulDegradation(ctx context.Context, customerID int64) (*Customer, error) {
	customer, err := c.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return nil, err
		}

		c.log.Error("CustomerDirectory unavailable, applying graceful degradation for customer_id=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: customer_id=%d, error=%v", ErrServiceDegraded, customerID, err)
	}

	return customer, nil
}
