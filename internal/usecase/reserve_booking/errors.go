package reserve_booking

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("reserve_booking: provider not found")

	// ErrProviderInactive возвращается, когда провайдер деактивирован в каталоге
	ErrProviderInactive = errors.New("reserve_booking: provider is inactive")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("reserve_booking: service not found")

	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("reserve_booking: customer not found")

	// ErrInvalidDate возвращается при некорректной дате бронирования (в прошлом)
	ErrInvalidDate = errors.New("reserve_booking: invalid booking date")

	// ErrProviderClosed возвращается, когда провайдер не работает в указанную дату
	ErrProviderClosed = errors.New("reserve_booking: provider is closed on this date")

	// ErrOutsideWorkingHours возвращается, когда интервал выходит за рабочие часы
	// или пересекается с blackout-интервалом
	ErrOutsideWorkingHours = errors.New("reserve_booking: slot is outside working hours")

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с существующим
	// активным бронированием
	ErrSlotNotAvailable = errors.New("reserve_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_booking: internal error")
)
