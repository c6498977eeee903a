package transition_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beautycort/booking-core/internal/domain"
	bookingRepo "github.com/beautycort/booking-core/internal/infra/storage/booking"
	"github.com/beautycort/booking-core/internal/integrations/notifier"
	"github.com/beautycort/booking-core/pkg/metrics"
)

// notifyTimeout максимальное время на отправку уведомления после фиксации транзакции
const notifyTimeout = 5 * time.Second

// UseCase use case смены статуса бронирования
// Guard state machine проверяется против актуального состояния строки,
// прочитанного с блокировкой внутри транзакции, а не против снапшота вызывающего
type UseCase struct {
	bookingRepo  BookingRepository
	notifier     NotifierClient
	txManager    TransactionManager
	timeProvider TimeProvider
	metrics      *metrics.Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// metricsCollector может быть nil, если метрики выключены
func NewUseCase(
	bookingRepo BookingRepository,
	notifierClient NotifierClient,
	txManager TransactionManager,
	metricsCollector *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		notifier:     notifierClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		metrics:      metricsCollector,
		logger:       logger,
	}
}

// Execute применяет переход статуса атомарно
// После успешной фиксации отправляет уведомление fire-and-forget: ошибка
// доставки никогда не откатывает смену статуса
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionBooking: booking=%d, target=%s, actor=%d", req.BookingID, req.TargetStatus, req.ActorID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TransitionBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Строка блокируется (FOR UPDATE): guard проверяется против
		// текущего сохранённого статуса
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("TransitionBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if err := authorize(booking, req, now); err != nil {
			uc.logger.Warn("TransitionBooking: actor=%d denied for booking id=%d target=%s",
				req.ActorID, req.BookingID, req.TargetStatus)
			return err
		}

		from := booking.Status

		// Guard и мутация выполняются на доменной модели; при нарушении
		// перехода состояние остаётся неизменным
		if req.TargetStatus == domain.StatusCancelled {
			if err := booking.Cancel(*req.Reason, now); err != nil {
				return mapDomainError(err)
			}
			if err := uc.bookingRepo.Cancel(txCtx, booking.ID, from, *booking.CancellationReason); err != nil {
				return uc.mapRepoError(err, booking.ID)
			}
		} else {
			if err := booking.Transition(req.TargetStatus, now); err != nil {
				return mapDomainError(err)
			}
			if err := uc.bookingRepo.UpdateStatus(txCtx, booking.ID, from, req.TargetStatus); err != nil {
				return uc.mapRepoError(err, booking.ID)
			}
		}

		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransitionsTotal.WithLabelValues(string(req.TargetStatus)).Inc()
	}

	uc.logger.Info("TransitionBooking: booking id=%d moved to %s", result.ID, result.Status)

	// Уведомление отправляется вне транзакции, fire-and-forget
	uc.dispatchNotification(result)

	return toResponse(result), nil
}

// authorize проверяет права инициатора перехода.
// Подтверждение - действие провайдера. Завершение доступно провайдеру в любой
// момент (досрочное завершение - его явное действие), клиенту - только после
// фактического конца интервала. Отмена доступна и клиенту, и провайдеру
func authorize(booking *domain.Booking, req *Request, now time.Time) error {
	switch req.TargetStatus {
	case domain.StatusConfirmed:
		if req.ActorID != booking.ProviderID {
			return ErrAccessDenied
		}
	case domain.StatusCompleted:
		if req.ActorID == booking.ProviderID {
			return nil
		}
		if req.ActorID != booking.CustomerID || !booking.HasEnded(now) {
			return ErrAccessDenied
		}
	case domain.StatusCancelled:
		if req.ActorID != booking.CustomerID && req.ActorID != booking.ProviderID {
			return ErrAccessDenied
		}
	}
	return nil
}

func mapDomainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrIllegalTransition):
		return ErrIllegalTransition
	case errors.Is(err, domain.ErrCancellationReasonRequired):
		return ErrReasonRequired
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func (uc *UseCase) mapRepoError(err error, bookingID int64) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return ErrBookingNotFound
	}
	// ErrStaleStatus под FOR UPDATE невозможен; любые остальные ошибки - инфраструктурные
	uc.logger.Error("TransitionBooking: repository error for booking id=%d: %v", bookingID, err)
	return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
}

func (uc *UseCase) dispatchNotification(booking *domain.Booking) {
	event := notifier.StatusChangedEvent{
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		ProviderID: booking.ProviderID,
		Status:     string(booking.Status),
		Reason:     booking.CancellationReason,
		OccurredAt: booking.UpdatedAt.Format(time.RFC3339),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := uc.notifier.BookingStatusChanged(ctx, event); err != nil {
			uc.logger.Error("TransitionBooking: notification dispatch failed for booking id=%d: %v", event.BookingID, err)
		}
	}()
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}

	switch req.TargetStatus {
	case domain.StatusConfirmed, domain.StatusCompleted:
		return nil
	case domain.StatusCancelled:
		if req.Reason == nil {
			return ErrReasonRequired
		}
		if len(*req.Reason) > domain.MaxCancellationReasonLength {
			return fmt.Errorf("%w: reason longer than %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
		}
		return nil
	case domain.StatusPending:
		// Вернуться в pending нельзя ни из какого статуса
		return ErrIllegalTransition
	default:
		return fmt.Errorf("%w: unknown target status %q", ErrInvalidInput, req.TargetStatus)
	}
}
