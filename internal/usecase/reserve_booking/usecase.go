package reserve_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/beautycort/booking-core/internal/domain"
	scheduleRepo "github.com/beautycort/booking-core/internal/infra/storage/schedule"
	customerClient "github.com/beautycort/booking-core/internal/integrations/customerdirectory"
	providerClient "github.com/beautycort/booking-core/internal/integrations/providerdirectory"
	"github.com/beautycort/booking-core/pkg/metrics"
)

// UseCase use case резервирования слота: проверка доступности и создание
// бронирования как одна атомарная операция
type UseCase struct {
	bookingRepo    BookingRepository
	scheduleRepo   ScheduleRepository
	providerClient ProviderDirectoryClient
	customerClient CustomerDirectoryClient
	txManager      TransactionManager
	timeProvider   TimeProvider
	metrics        *metrics.Metrics
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
// metricsCollector может быть nil, если метрики выключены
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	providerClient ProviderDirectoryClient,
	customerClient CustomerDirectoryClient,
	txManager TransactionManager,
	metricsCollector *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		scheduleRepo:   scheduleRepo,
		providerClient: providerClient,
		customerClient: customerClient,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		metrics:        metricsCollector,
		logger:         logger,
	}
}

// Execute выполняет резервирование слота
// Проверка доступности и запись бронирования выполняются в одной сериализуемой
// транзакции с блокировкой занятых интервалов дня (FOR UPDATE): из двух
// конкурентных запросов на пересекающиеся интервалы успешным будет ровно один
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveBooking: customer=%d, provider=%d, service=%d, date=%s, time=%s",
		req.CustomerID, req.ProviderID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Дата не должна быть в прошлом
	if domain.IsDateInPast(req.Date, now) {
		uc.logger.Warn("ReserveBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Получаем провайдера
	provider, err := uc.providerClient.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providerClient.ErrProviderNotFound) {
			uc.logger.Warn("ReserveBooking: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("ReserveBooking: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}
	if !provider.Active {
		uc.logger.Warn("ReserveBooking: provider id=%d is inactive", req.ProviderID)
		return nil, ErrProviderInactive
	}

	// 4. Получаем услугу (длительность слота берётся из каталога)
	service, err := uc.providerClient.GetService(ctx, req.ProviderID, req.ServiceID)
	if err != nil {
		if errors.Is(err, providerClient.ErrServiceNotFound) {
			uc.logger.Warn("ReserveBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("ReserveBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if err := validateService(service); err != nil {
		uc.logger.Warn("ReserveBooking: service id=%d validation failed: %v", req.ServiceID, err)
		return nil, err
	}

	// 5. Получаем отображаемые данные клиента (graceful degradation:
	// недоступность каталога не блокирует бронирование)
	customerName, customerPhone, err := uc.fetchCustomerDisplayData(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	// 6. Собираем целевой интервал
	endTime, err := req.StartTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("ReserveBooking: interval crosses midnight: start=%s duration=%d", req.StartTime, service.DurationMinutes)
		return nil, fmt.Errorf("%w: interval must not cross midnight", ErrInvalidInput)
	}
	interval, err := domain.NewTimeInterval(req.ProviderID, req.Date, req.StartTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *domain.Booking

	// 7. Проверка доступности и создание - одна сериализуемая транзакция
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Расписание читается в той же транзакции, что и занятые интервалы
		sched, err := uc.scheduleRepo.GetForDate(txCtx, req.ProviderID, req.Date)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				uc.logger.Warn("ReserveBooking: provider id=%d has no declared schedule", req.ProviderID)
				return ErrProviderClosed
			}
			uc.logger.Error("ReserveBooking: failed to get schedule: %v", err)
			return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
		}

		if !sched.Hours.ForDate(req.Date).IsOpen {
			uc.logger.Warn("ReserveBooking: provider id=%d is closed on %s", req.ProviderID, req.Date.Format(domain.DateFormat))
			return ErrProviderClosed
		}

		// 7.2. Активные бронирования дня читаются с блокировкой (FOR UPDATE)
		filter := domain.ProviderBookingsFilter{
			ProviderID:      req.ProviderID,
			StartDate:       &interval.Date,
			EndDate:         &interval.Date,
			IncludeInactive: false,
		}
		bookings, err := uc.bookingRepo.GetByProviderWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("ReserveBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 7.3. Проверяем доступность интервала
		index := domain.NewAvailabilityIndex(*sched, bookings)
		if !index.IsFree(interval) {
			if !sched.Within(interval) {
				uc.logger.Warn("ReserveBooking: interval %s is outside working hours", interval)
				return ErrOutsideWorkingHours
			}
			uc.logger.Warn("ReserveBooking: interval %s overlaps an active booking", interval)
			return ErrSlotNotAvailable
		}

		// 7.4. Начальный статус: pending, либо confirmed при автоподтверждении
		status := domain.StatusPending
		if provider.AutoConfirm {
			status = domain.StatusConfirmed
		}

		booking := &domain.Booking{
			CustomerID:      req.CustomerID,
			ProviderID:      req.ProviderID,
			ServiceID:       req.ServiceID,
			BookingDate:     interval.Date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			TotalAmount:     req.TotalAmount,
			PaymentMethod:   req.PaymentMethod,
			Status:          status,
			ServiceName:     service.Name,
			CustomerName:    customerName,
			CustomerPhone:   customerPhone,
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("ReserveBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		uc.recordOutcome(err)
		return nil, err
	}

	uc.recordOutcome(nil)
	uc.logger.Info("ReserveBooking: successfully created booking id=%d, status=%s", result.ID, result.Status)

	return toResponse(result), nil
}

// fetchCustomerDisplayData получает денормализованные имя и телефон клиента
// При недоступности каталога возвращает пустые значения: эти поля нужны
// только для отображения и не должны блокировать бронирование
func (uc *UseCase) fetchCustomerDisplayData(ctx context.Context, customerID int64) (string, string, error) {
	customer, err := uc.customerClient.GetCustomerWithGracefulDegradation(ctx, customerID)
	if err != nil {
		if errors.Is(err, customerClient.ErrCustomerNotFound) {
			uc.logger.Warn("ReserveBooking: customer id=%d not found", customerID)
			return "", "", ErrCustomerNotFound
		}
		if errors.Is(err, customerClient.ErrServiceDegraded) {
			uc.logger.Warn("ReserveBooking: customer directory degraded, booking without display data: %v", err)
			return "", "", nil
		}
		uc.logger.Error("ReserveBooking: failed to get customer id=%d: %v", customerID, err)
		return "", "", fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}
	return customer.Name, customer.Phone, nil
}

func (uc *UseCase) recordOutcome(err error) {
	if uc.metrics == nil {
		return
	}
	switch {
	case err == nil:
		uc.metrics.ReservationsTotal.WithLabelValues(metrics.OutcomeCreated).Inc()
	case errors.Is(err, ErrSlotNotAvailable), errors.Is(err, ErrOutsideWorkingHours), errors.Is(err, ErrProviderClosed):
		uc.metrics.ReservationsTotal.WithLabelValues(metrics.OutcomeConflict).Inc()
	default:
		uc.metrics.ReservationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
	}
}
