package update_booking_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/beautycort/booking-core/internal/api/handlers"
	"github.com/beautycort/booking-core/internal/api/middleware"
	"github.com/beautycort/booking-core/internal/domain"
	transitionBooking "github.com/beautycort/booking-core/internal/usecase/transition_booking"
	"github.com/beautycort/booking-core/pkg/txmanager"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidStatus      = "некорректный целевой статус, ожидается confirmed или completed"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "переход статуса доступен только провайдеру"
	msgIllegalTransition  = "переход в указанный статус невозможен из текущего"
	msgStorageBusy        = "сервис временно перегружен, повторите запрос"
)

type Handler struct {
	useCase TransitionBookingUseCase
	logger  Logger
}

func NewHandler(useCase TransitionBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/status
// Для отмены есть отдельный endpoint /cancel - там обязательна причина
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Через этот endpoint проходят только confirmed и completed
	targetStatus := domain.BookingStatus(req.Status)
	if targetStatus != domain.StatusConfirmed && targetStatus != domain.StatusCompleted {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid target status: booking_id=%d, status=%s", bookingID, req.Status)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &transitionBooking.Request{
		BookingID:    bookingID,
		ActorID:      userID,
		TargetStatus: targetStatus,
	})
	if err != nil {
		switch {
		case errors.Is(err, transitionBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/status - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, transitionBooking.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/status - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, transitionBooking.ErrIllegalTransition):
			h.logger.Warn("PATCH /bookings/{id}/status - Illegal transition: booking_id=%d, target=%s", bookingID, req.Status)
			handlers.RespondConflict(w, msgIllegalTransition)

		case errors.Is(err, transitionBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/status - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, txmanager.ErrSerializationFailure):
			h.logger.Warn("PATCH /bookings/{id}/status - Serialization failure: booking_id=%d", bookingID)
			handlers.RespondServiceUnavailable(w, msgStorageBusy)

		default:
			h.logger.Error("PATCH /bookings/{id}/status - Failed to update status: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - Status updated: booking_id=%d, status=%s, user_id=%d",
		bookingID, result.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
