package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/beautycort/booking-core/internal/api/handlers"
	"github.com/beautycort/booking-core/internal/api/middleware"
	rescheduleBooking "github.com/beautycort/booking-core/internal/usecase/reschedule_booking"
	"github.com/beautycort/booking-core/pkg/txmanager"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidBookingID    = "некорректный ID бронирования"
	msgInvalidDateTime     = "некорректный формат даты (YYYY-MM-DD) или времени (HH:MM)"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgNotFound            = "бронирование не найдено"
	msgForbidden           = "перенести бронирование может только его клиент или провайдер"
	msgIntervalLocked      = "перенос доступен только для неподтверждённых бронирований"
	msgInvalidDate         = "некорректная новая дата бронирования"
	msgProviderClosed      = "провайдер не работает в новую дату"
	msgOutsideWorkingHours = "новое время вне рабочих часов провайдера"
	msgSlotNotAvailable    = "новый временной слот уже занят"
	msgStorageBusy         = "сервис временно перегружен, повторите запрос"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, userID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rescheduleBooking.ErrIntervalLocked):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Interval locked: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgIntervalLocked)

		case errors.Is(err, rescheduleBooking.ErrInvalidDate):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid date: booking_id=%d, date=%s", bookingID, req.NewDate)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, rescheduleBooking.ErrProviderClosed):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Provider closed: booking_id=%d, date=%s", bookingID, req.NewDate)
			handlers.RespondConflict(w, msgProviderClosed)

		case errors.Is(err, rescheduleBooking.ErrOutsideWorkingHours):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Outside working hours: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgOutsideWorkingHours)

		case errors.Is(err, rescheduleBooking.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Slot not available: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, txmanager.ErrSerializationFailure):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Serialization failure: booking_id=%d", bookingID)
			handlers.RespondServiceUnavailable(w, msgStorageBusy)

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed to reschedule: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/reschedule - Booking rescheduled: booking_id=%d, new_date=%s, new_time=%s",
		bookingID, result.BookingDate.Format("2006-01-02"), result.StartTime)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
