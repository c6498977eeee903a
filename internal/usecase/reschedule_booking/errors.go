package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrIntervalLocked возвращается, когда бронирование уже покинуло статус pending:
	// перенос тогда оформляется новым резервированием
	ErrIntervalLocked = errors.New("reschedule_booking: booking is no longer pending")

	// ErrAccessDenied возвращается, когда инициатор не вправе переносить бронирование
	ErrAccessDenied = errors.New("reschedule_booking: access denied")

	// ErrInvalidDate возвращается при некорректной новой дате (в прошлом)
	ErrInvalidDate = errors.New("reschedule_booking: invalid booking date")

	// ErrProviderClosed возвращается, когда провайдер не работает в новую дату
	ErrProviderClosed = errors.New("reschedule_booking: provider is closed on this date")

	// ErrOutsideWorkingHours возвращается, когда новый интервал выходит за рабочие часы
	// или пересекается с blackout-интервалом
	ErrOutsideWorkingHours = errors.New("reschedule_booking: slot is outside working hours")

	// ErrSlotNotAvailable возвращается, когда новый интервал занят другим бронированием
	// Интервал исходного бронирования при этом остаётся неизменным
	ErrSlotNotAvailable = errors.New("reschedule_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
