package models

import (
	"errors"
	"time"

	"github.com/beautycort/booking-core/internal/domain"
)

// ErrInvalidStatus возвращается при некорректном статусе
var ErrInvalidStatus = errors.New("invalid booking status")

// Request модели

// GetProviderBookingsRequest запрос на получение бронирований провайдера
type GetProviderBookingsRequest struct {
	ProviderID      int64      `json:"providerId"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	FreeText        *string    `json:"q,omitempty"`               // Поиск по имени/телефону клиента и названию услуги
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить терминальные бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetProviderBookingsRequest) ToDomainFilter() (domain.ProviderBookingsFilter, error) {
	filter := domain.ProviderBookingsFilter{
		ProviderID:      r.ProviderID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// GetCustomerBookingsRequest запрос на получение истории бронирований клиента
type GetCustomerBookingsRequest struct {
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64  `json:"id"`
	CustomerID      int64  `json:"customerId"`
	ProviderID      int64  `json:"providerId"`
	ServiceID       int64  `json:"serviceId"`
	BookingDate     string `json:"bookingDate"` // "2025-10-15"
	StartTime       string `json:"startTime"`   // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	TotalAmount     int64  `json:"totalAmount"` // minor units
	PaymentMethod   string `json:"paymentMethod"`
	Status          string `json:"status"`

	// Денормализованные данные
	ServiceName   string  `json:"serviceName"`
	CustomerName  string  `json:"customerName,omitempty"`
	CustomerPhone string  `json:"customerPhone,omitempty"`
	Notes         *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// ProviderStatsResponse ответ со статистикой провайдера
type ProviderStatsResponse struct {
	Total        int   `json:"total"`
	Pending      int   `json:"pending"`
	Confirmed    int   `json:"confirmed"`
	Completed    int   `json:"completed"`
	Cancelled    int   `json:"cancelled"`
	TodayCount   int   `json:"todayCount"`
	WeekCount    int   `json:"weekCount"`
	MonthRevenue int64 `json:"monthRevenue"` // minor units, completed за скользящие 30 дней
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		ProviderID:         b.ProviderID,
		ServiceID:          b.ServiceID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		DurationMinutes:    b.DurationMinutes,
		TotalAmount:        b.TotalAmount,
		PaymentMethod:      string(b.PaymentMethod),
		Status:             string(b.Status),
		ServiceName:        b.ServiceName,
		CustomerName:       b.CustomerName,
		CustomerPhone:      b.CustomerPhone,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
