package get_provider_stats

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/beautycort/booking-core/internal/api/handlers"
	"github.com/beautycort/booking-core/internal/api/middleware"
)

const (
	msgInvalidProviderID = "некорректный ID провайдера"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "статистика доступна только самому провайдеру"
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

// Handle GET /api/v1/providers/{providerId}/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/stats - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /providers/{id}/stats - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if userID != providerID {
		h.logger.Warn("GET /providers/{id}/stats - Access denied: provider_id=%d, user_id=%d", providerID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	stats, err := h.service.GetProviderStats(r.Context(), providerID)
	if err != nil {
		h.logger.Error("GET /providers/{id}/stats - Failed to compute stats: provider_id=%d, error=%v",
			providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /providers/{id}/stats - Stats retrieved successfully: provider_id=%d, total=%d",
		providerID, stats.Total)
	handlers.RespondJSON(w, http.StatusOK, stats)
}
