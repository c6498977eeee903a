package providerdirectory

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден в каталоге
	ErrProviderNotFound = errors.New("providerdirectory client: provider not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена у провайдера
	ErrServiceNotFound = errors.New("providerdirectory client: service not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("providerdirectory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("providerdirectory client: invalid response")
)
