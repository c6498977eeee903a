package transition_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("transition_booking: booking not found")

	// ErrIllegalTransition возвращается при нарушении state machine статусов
	ErrIllegalTransition = errors.New("transition_booking: illegal status transition")

	// ErrReasonRequired возвращается при отмене без непустой причины
	ErrReasonRequired = errors.New("transition_booking: cancellation reason is required")

	// ErrAccessDenied возвращается, когда инициатор не вправе выполнять переход
	ErrAccessDenied = errors.New("transition_booking: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_booking: internal error")
)
