package reschedule_booking

import (
	"time"

	"github.com/beautycort/booking-core/internal/domain"
	rescheduleBooking "github.com/beautycort/booking-core/internal/usecase/reschedule_booking"
	"github.com/beautycort/booking-core/pkg/types"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	NewDate      string `json:"newDate"`      // "2025-10-16"
	NewStartTime string `json:"newStartTime"` // "14:00"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64  `json:"id"`
	CustomerID      int64  `json:"customerId"`
	ProviderID      int64  `json:"providerId"`
	ServiceID       int64  `json:"serviceId"`
	BookingDate     string `json:"bookingDate"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
	UpdatedAt       string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID, actorID int64) (*rescheduleBooking.Request, error) {
	newDate, err := time.Parse(domain.DateFormat, r.NewDate)
	if err != nil {
		return nil, err
	}

	newStartTime, err := types.NewTimeStringFromString(r.NewStartTime)
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		BookingID:    bookingID,
		ActorID:      actorID,
		NewDate:      newDate,
		NewStartTime: newStartTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		CustomerID:      resp.CustomerID,
		ProviderID:      resp.ProviderID,
		ServiceID:       resp.ServiceID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
