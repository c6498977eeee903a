package reserve_booking

import (
	"time"

	"github.com/beautycort/booking-core/internal/domain"
	"github.com/beautycort/booking-core/pkg/types"
)

// Request модель запроса на резервирование слота
type Request struct {
	CustomerID    int64                // ID клиента
	ProviderID    int64                // ID провайдера
	ServiceID     int64                // ID услуги
	Date          time.Time            // Дата бронирования (без времени)
	StartTime     types.TimeString     // Время начала (например, "10:00")
	TotalAmount   int64                // Сумма в минорных единицах валюты
	PaymentMethod domain.PaymentMethod // Способ оплаты
	Notes         *string              // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
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

	// Денормализованные данные
	ServiceName   string
	CustomerName  string
	CustomerPhone string
	Notes         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		ProviderID:      b.ProviderID,
		ServiceID:       b.ServiceID,
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime,
		DurationMinutes: b.DurationMinutes,
		TotalAmount:     b.TotalAmount,
		PaymentMethod:   string(b.PaymentMethod),
		Status:          string(b.Status),
		ServiceName:     b.ServiceName,
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
