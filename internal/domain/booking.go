package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/beautycort/booking-core/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentMethod represents how the customer intends to pay
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentWallet PaymentMethod = "wallet"
)

var (
	// ErrIllegalTransition возвращается при нарушении допустимых переходов статуса
	ErrIllegalTransition = errors.New("domain: illegal booking status transition")

	// ErrCancellationReasonRequired возвращается при отмене без указания причины
	ErrCancellationReasonRequired = errors.New("domain: cancellation reason is required")

	// ErrIntervalLocked возвращается при попытке изменить интервал бронирования,
	// которое уже покинуло статус pending
	ErrIntervalLocked = errors.New("domain: booking interval is immutable after confirmation")
)

// legalTransitions описывает допустимые переходы статусов.
// Терминальные статусы (completed, cancelled) не имеют исходящих переходов
var legalTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// IsValid returns true if the status is one of the known booking statuses
func (s BookingStatus) IsValid() bool {
	_, ok := legalTransitions[s]
	return ok
}

// IsTerminal returns true if no transition may leave this status
func (s BookingStatus) IsTerminal() bool {
	for _, terminal := range TerminalStatuses {
		if s == terminal {
			return true
		}
	}
	return false
}

// CanTransition returns true if the state machine permits moving from one status to another
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsValidPaymentMethod returns true for a known payment method
func IsValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentWallet
}

// Booking represents a customer appointment with a beauty-service provider.
// It is the aggregate root: status changes go through Transition/Cancel so the
// state machine can never be bypassed
type Booking struct {
	ID              int64
	CustomerID      int64
	ProviderID      int64
	ServiceID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	TotalAmount     int64 // currency minor units
	PaymentMethod   PaymentMethod
	Status          BookingStatus

	// Denormalized data for history and display-side filtering
	ServiceName   string
	CustomerName  string
	CustomerPhone string
	Notes         *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the time interval this booking occupies
func (b *Booking) Interval() (TimeInterval, error) {
	end, err := b.StartTime.AddMinutes(b.DurationMinutes)
	if err != nil {
		return TimeInterval{}, err
	}
	return NewTimeInterval(b.ProviderID, b.BookingDate, b.StartTime, end)
}

// EndTime returns the wall-clock end of the booking interval
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// IsActive returns true if the booking still occupies its slot
// (pending and confirmed bookings block the availability index)
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking may still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return CanTransition(b.Status, StatusCancelled)
}

// CanBeRescheduled returns true while the interval may still be swapped.
// Once a booking is confirmed the interval is locked; rescheduling then
// requires a new reservation attempt
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending
}

// HasEnded returns true if the booking interval lies entirely in the past
func (b *Booking) HasEnded(now time.Time) bool {
	end, err := b.EndTime()
	if err != nil {
		return false
	}
	endAt := time.Date(
		b.BookingDate.Year(), b.BookingDate.Month(), b.BookingDate.Day(),
		end.Minutes()/60, end.Minutes()%60, 0, 0, now.Location(),
	)
	return !now.Before(endAt)
}

// Transition moves the booking to the target status, enforcing the state
// machine. The booking is left unchanged when the transition is illegal
func (b *Booking) Transition(to BookingStatus, now time.Time) error {
	if to == StatusCancelled {
		// Cancellation goes through Cancel so a reason is always captured
		return ErrCancellationReasonRequired
	}
	if !CanTransition(b.Status, to) {
		return ErrIllegalTransition
	}
	b.Status = to
	b.UpdatedAt = now
	return nil
}

// Cancel moves the booking to cancelled, recording the reason.
// A blank reason is rejected rather than silently stored
func (b *Booking) Cancel(reason string, now time.Time) error {
	if !CanTransition(b.Status, StatusCancelled) {
		return ErrIllegalTransition
	}
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return ErrCancellationReasonRequired
	}
	b.Status = StatusCancelled
	b.CancellationReason = &trimmed
	b.CancelledAt = &now
	b.UpdatedAt = now
	return nil
}

// Reschedule swaps the booking interval in place. Only legal while pending;
// availability for the new interval must be checked by the caller inside the
// same transaction that persists the swap
func (b *Booking) Reschedule(date time.Time, start types.TimeString, now time.Time) error {
	if !b.CanBeRescheduled() {
		return ErrIntervalLocked
	}
	b.BookingDate = date
	b.StartTime = start
	b.UpdatedAt = now
	return nil
}

// ProviderBookingsFilter фильтр для выборки бронирований провайдера
type ProviderBookingsFilter struct {
	ProviderID      int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли терминальные бронирования
}
