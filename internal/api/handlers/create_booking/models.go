package create_booking

import (
	"time"

	"github.com/beautycort/booking-core/internal/domain"
	reserveBooking "github.com/beautycort/booking-core/internal/usecase/reserve_booking"
	"github.com/beautycort/booking-core/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CustomerID    int64   `json:"customerId"`
	ProviderID    int64   `json:"providerId"`
	ServiceID     int64   `json:"serviceId"`
	BookingDate   string  `json:"bookingDate"` // "2025-10-15"
	StartTime     string  `json:"startTime"`   // "10:00"
	TotalAmount   int64   `json:"totalAmount"` // minor units
	PaymentMethod string  `json:"paymentMethod"`
	Notes         *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	CustomerID      int64   `json:"customerId"`
	ProviderID      int64   `json:"providerId"`
	ServiceID       int64   `json:"serviceId"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	TotalAmount     int64   `json:"totalAmount"`
	PaymentMethod   string  `json:"paymentMethod"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	CustomerName    string  `json:"customerName,omitempty"`
	CustomerPhone   string  `json:"customerPhone,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*reserveBooking.Request, error) {
	// Парсим дату
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &reserveBooking.Request{
		CustomerID:    r.CustomerID,
		ProviderID:    r.ProviderID,
		ServiceID:     r.ServiceID,
		Date:          bookingDate,
		StartTime:     startTime,
		TotalAmount:   r.TotalAmount,
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		CustomerID:      resp.CustomerID,
		ProviderID:      resp.ProviderID,
		ServiceID:       resp.ServiceID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		TotalAmount:     resp.TotalAmount,
		PaymentMethod:   resp.PaymentMethod,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		CustomerName:    resp.CustomerName,
		CustomerPhone:   resp.CustomerPhone,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
