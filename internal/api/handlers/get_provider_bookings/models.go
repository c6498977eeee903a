package get_provider_bookings

import (
	"strconv"
	"time"

	"github.com/beautycort/booking-core/internal/domain"
	"github.com/beautycort/booking-core/internal/service/bookings/models"
)

// ToServiceRequest собирает запрос к сервису из query параметров
func ToServiceRequest(providerID int64, startDateStr, endDateStr, statusStr, freeTextStr, includeInactiveStr string) (*models.GetProviderBookingsRequest, error) {
	req := &models.GetProviderBookingsRequest{
		ProviderID: providerID,
	}

	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if freeTextStr != "" {
		req.FreeText = &freeTextStr
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
