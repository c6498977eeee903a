package get_provider_stats

import (
	"context"

	"github.com/beautycort/booking-core/internal/service/bookings/models"
)

type BookingService interface {
	GetProviderStats(ctx context.Context, providerID int64) (*models.ProviderStatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
