package transition_booking

import (
	"time"

	"github.com/beautycort/booking-core/internal/domain"
	"github.com/beautycort/booking-core/pkg/types"
)

// Request модель запроса на смену статуса бронирования
type Request struct {
	BookingID    int64                // ID бронирования
	ActorID      int64                // ID инициатора (клиент или провайдер)
	TargetStatus domain.BookingStatus // Целевой статус: confirmed, completed, cancelled
	Reason       *string              // Причина отмены (обязательна для cancelled)
}

// Response модель ответа с обновлённым бронированием
type Response struct {
	ID              int64
	CustomerID      int64
	ProviderID      int64
	ServiceID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	TotalAmount     int64
	PaymentMethod   string
	Status          string

	ServiceName   string
	CustomerName  string
	CustomerPhone string
	Notes         *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		ProviderID:         b.ProviderID,
		ServiceID:          b.ServiceID,
		BookingDate:        b.BookingDate,
		StartTime:          b.StartTime,
		DurationMinutes:    b.DurationMinutes,
		TotalAmount:        b.TotalAmount,
		PaymentMethod:      string(b.PaymentMethod),
		Status:             string(b.Status),
		ServiceName:        b.ServiceName,
		CustomerName:       b.CustomerName,
		CustomerPhone:      b.CustomerPhone,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}
