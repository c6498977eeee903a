package update_booking_status

import (
	"time"

	"github.com/beautycort/booking-core/internal/domain"
	transitionBooking "github.com/beautycort/booking-core/internal/usecase/transition_booking"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"` // "confirmed" | "completed"
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

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *transitionBooking.Response) *BookingResponse {
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
