package reserve_booking

import (
	"fmt"

	"github.com/beautycort/booking-core/internal/domain"
	"github.com/beautycort/booking-core/internal/integrations/providerdirectory"
)

// validateRequest валидирует входные данные запроса
// Идентификаторы принимаются только строго положительными - никакого
// "use as-is" для некорректных значений
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.TotalAmount < 0 {
		return fmt.Errorf("%w: totalAmount must not be negative", ErrInvalidInput)
	}

	if !domain.IsValidPaymentMethod(req.PaymentMethod) {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, req.PaymentMethod)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateService проверяет, что услуга пригодна для бронирования
func validateService(service *providerdirectory.Service) error {
	if !service.Active {
		return ErrServiceNotFound
	}
	if service.DurationMinutes < domain.MinServiceDurationMinutes ||
		service.DurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: service duration %d minutes is out of range", ErrInternal, service.DurationMinutes)
	}
	return nil
}
