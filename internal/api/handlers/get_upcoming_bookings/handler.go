package get_upcoming_bookings

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/beautycort/booking-core/internal/api/handlers"
	"github.com/beautycort/booking-core/internal/api/middleware"
)

const (
	msgInvalidProviderID = "некорректный ID провайдера"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "ближайшие записи доступны только самому провайдеру"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/bookings/upcoming
// Возвращает сегодняшние активные бронирования, начинающиеся не раньше текущего момента
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/bookings/upcoming - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /providers/{id}/bookings/upcoming - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if userID != providerID {
		h.logger.Warn("GET /providers/{id}/bookings/upcoming - Access denied: provider_id=%d, user_id=%d",
			providerID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.service.GetUpcomingBookings(r.Context(), providerID, time.Now())
	if err != nil {
		h.logger.Error("GET /providers/{id}/bookings/upcoming - Failed to get bookings: provider_id=%d, error=%v",
			providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /providers/{id}/bookings/upcoming - Bookings retrieved successfully: provider_id=%d, count=%d",
		providerID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
