package get_upcoming_bookings

import (
	"context"
	"time"

	"github.com/beautycort/booking-core/internal/service/bookings/models"
)

type BookingService interface {
	GetUpcomingBookings(ctx context.Context, providerID int64, asOf time.Time) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
