package create_booking

import (
	"errors"
	"net/http"

	"github.com/beautycort/booking-core/internal/api/handlers"
	"github.com/beautycort/booking-core/internal/api/middleware"
	reserveBooking "github.com/beautycort/booking-core/internal/usecase/reserve_booking"
	"github.com/beautycort/booking-core/pkg/txmanager"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateTime     = "некорректный формат даты (YYYY-MM-DD) или времени (HH:MM)"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgForbidden           = "бронирование можно создать только от своего имени"
	msgSlotNotAvailable    = "выбранный временной слот уже занят"
	msgOutsideWorkingHours = "выбранное время вне рабочих часов провайдера"
	msgProviderNotFound    = "провайдер не найден"
	msgProviderInactive    = "провайдер деактивирован"
	msgServiceNotFound     = "услуга не найдена"
	msgCustomerNotFound    = "клиент не найден"
	msgProviderClosed      = "провайдер не работает в выбранную дату"
	msgInvalidBookingDate  = "некорректная дата бронирования"
	msgInvalidInput        = "некорректные данные запроса"
	msgStorageBusy         = "сервис временно перегружен, повторите запрос"
)

type Handler struct {
	useCase ReserveBookingUseCase
	logger  Logger
}

func NewHandler(useCase ReserveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Бронирование создаётся только от имени аутентифицированного клиента
	if req.CustomerID != userID {
		h.logger.Warn("POST /bookings - Customer mismatch: customer_id=%d, user_id=%d", req.CustomerID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, reserveBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: customer_id=%d, provider_id=%d", req.CustomerID, req.ProviderID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, reserveBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings - Outside working hours: customer_id=%d, provider_id=%d", req.CustomerID, req.ProviderID)
			handlers.RespondConflict(w, msgOutsideWorkingHours)

		case errors.Is(err, reserveBooking.ErrProviderNotFound):
			h.logger.Warn("POST /bookings - Provider not found: provider_id=%d", req.ProviderID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, reserveBooking.ErrProviderInactive):
			h.logger.Warn("POST /bookings - Provider inactive: provider_id=%d", req.ProviderID)
			handlers.RespondConflict(w, msgProviderInactive)

		case errors.Is(err, reserveBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: provider_id=%d, service_id=%d", req.ProviderID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, reserveBooking.ErrCustomerNotFound):
			h.logger.Warn("POST /bookings - Customer not found: customer_id=%d", req.CustomerID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, reserveBooking.ErrProviderClosed):
			h.logger.Warn("POST /bookings - Provider closed: provider_id=%d, date=%s", req.ProviderID, req.BookingDate)
			handlers.RespondConflict(w, msgProviderClosed)

		case errors.Is(err, reserveBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: customer_id=%d, date=%s", req.CustomerID, req.BookingDate)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, reserveBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: customer_id=%d, error=%v", req.CustomerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, txmanager.ErrSerializationFailure):
			h.logger.Warn("POST /bookings - Serialization failure: customer_id=%d, provider_id=%d", req.CustomerID, req.ProviderID)
			handlers.RespondServiceUnavailable(w, msgStorageBusy)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: customer_id=%d, provider_id=%d, error=%v",
				req.CustomerID, req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, customer_id=%d, provider_id=%d, status=%s",
		result.ID, req.CustomerID, req.ProviderID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
