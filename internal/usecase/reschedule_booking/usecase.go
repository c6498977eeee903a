package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beautycort/booking-core/internal/domain"
	bookingRepo "github.com/beautycort/booking-core/internal/infra/storage/booking"
	scheduleRepo "github.com/beautycort/booking-core/internal/infra/storage/schedule"
	"github.com/beautycort/booking-core/pkg/types"
)

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID    int64            // ID бронирования
	ActorID      int64            // ID инициатора (клиент или провайдер)
	NewDate      time.Time        // Новая дата
	NewStartTime types.TimeString // Новое время начала
}

// Response модель ответа с перенесённым бронированием
type Response struct {
	ID              int64
	CustomerID      int64
	ProviderID      int64
	ServiceID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          string
	UpdatedAt       time.Time
}

// UseCase use case переноса pending-бронирования на новый интервал
// Проверка доступности нового интервала и подмена интервала выполняются
// в одной сериализуемой транзакции: при конфликте исходный интервал
// остаётся нетронутым
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepository BookingRepository,
	scheduleRepository ScheduleRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepository,
		scheduleRepo: scheduleRepository,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет перенос бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d, newDate=%s, newTime=%s, actor=%d",
		req.BookingID, req.NewDate.Format(domain.DateFormat), req.NewStartTime, req.ActorID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if domain.IsDateInPast(req.NewDate, now) {
		uc.logger.Warn("RescheduleBooking: new date %s is in the past", req.NewDate.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if req.ActorID != booking.CustomerID && req.ActorID != booking.ProviderID {
			uc.logger.Warn("RescheduleBooking: actor=%d denied for booking id=%d", req.ActorID, req.BookingID)
			return ErrAccessDenied
		}

		// Интервал подтверждённого бронирования неизменяем
		if !booking.CanBeRescheduled() {
			uc.logger.Warn("RescheduleBooking: booking id=%d is %s, interval locked", booking.ID, booking.Status)
			return ErrIntervalLocked
		}

		newEnd, err := req.NewStartTime.AddMinutes(booking.DurationMinutes)
		if err != nil {
			return fmt.Errorf("%w: interval must not cross midnight", ErrInvalidInput)
		}
		newInterval, err := domain.NewTimeInterval(booking.ProviderID, req.NewDate, req.NewStartTime, newEnd)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		sched, err := uc.scheduleRepo.GetForDate(txCtx, booking.ProviderID, req.NewDate)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				return ErrProviderClosed
			}
			uc.logger.Error("RescheduleBooking: failed to get schedule: %v", err)
			return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
		}
		if !sched.Hours.ForDate(req.NewDate).IsOpen {
			return ErrProviderClosed
		}

		// Активные бронирования новой даты читаются с блокировкой (FOR UPDATE)
		filter := domain.ProviderBookingsFilter{
			ProviderID:      booking.ProviderID,
			StartDate:       &newInterval.Date,
			EndDate:         &newInterval.Date,
			IncludeInactive: false,
		}
		dayBookings, err := uc.bookingRepo.GetByProviderWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// Собственный текущий интервал бронирования не должен блокировать перенос
		index := domain.NewAvailabilityIndex(*sched, dayBookings)
		if !index.IsFreeExcept(newInterval, dayBookings, booking.ID) {
			if !sched.Within(newInterval) {
				uc.logger.Warn("RescheduleBooking: interval %s is outside working hours", newInterval)
				return ErrOutsideWorkingHours
			}
			uc.logger.Warn("RescheduleBooking: interval %s overlaps an active booking", newInterval)
			return ErrSlotNotAvailable
		}

		if err := booking.Reschedule(newInterval.Date, req.NewStartTime, now); err != nil {
			return ErrIntervalLocked
		}

		// Условное обновление: применяется только пока строка в статусе pending
		if err := uc.bookingRepo.UpdateInterval(txCtx, booking.ID, newInterval.Date, req.NewStartTime); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			if errors.Is(err, bookingRepo.ErrStaleStatus) {
				return ErrIntervalLocked
			}
			uc.logger.Error("RescheduleBooking: failed to update interval for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update interval: %v", ErrInternal, err)
		}

		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: booking id=%d moved to %s %s",
		result.ID, result.BookingDate.Format(domain.DateFormat), result.StartTime)

	return &Response{
		ID:              result.ID,
		CustomerID:      result.CustomerID,
		ProviderID:      result.ProviderID,
		ServiceID:       result.ServiceID,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}
	if req.NewDate.IsZero() {
		return fmt.Errorf("%w: newDate is required", ErrInvalidInput)
	}
	if req.NewStartTime.IsZero() {
		return fmt.Errorf("%w: newStartTime is required", ErrInvalidInput)
	}
	if err := req.NewStartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid newStartTime format: %v", ErrInvalidInput, err)
	}
	return nil
}
